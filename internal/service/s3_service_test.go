package service

import (
	"context"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 : минимальный S3 в памяти для path-style запросов /<bucket>/<key>
type fakeS3 struct {
	mu          sync.Mutex
	objects     map[string]string
	contentType map[string]string
	buckets     map[string]bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, contentType: map[string]string{}, buckets: map[string]bool{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = string(body)
		f.contentType[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		content, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.contentType[path])
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, content)
	case r.Method == http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Service(t *testing.T) (*S3Service, *fakeS3) {
	t.Helper()

	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := NewS3Service(context.Background(), &config.S3Config{
		Bucket:    "files",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
		Local:     true,
	})
	require.NoError(t, err)

	return svc, fake
}

func TestS3Service_CreatesBucket(t *testing.T) {
	_, fake := newTestS3Service(t)

	assert.True(t, fake.buckets["files"])
}

func TestS3Service_PutGetDelete(t *testing.T) {
	svc, fake := newTestS3Service(t)
	ctx := context.Background()
	key := "users/1/files/01J.txt"

	require.NoError(t, svc.PutObject(ctx, key, strings.NewReader("hello"), 5, "text/plain"))
	assert.Equal(t, "text/plain", fake.contentType["files/"+key])

	body, err := svc.GetObject(ctx, key)
	require.NoError(t, err)
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "hello", string(content))

	require.NoError(t, svc.DeleteObject(ctx, key))

	_, err = svc.GetObject(ctx, key)
	assert.ErrorIs(t, err, model.ErrObjectNotFound)
}

func TestIsNoSuchKey(t *testing.T) {
	assert.True(t, isNoSuchKey(&types.NoSuchKey{}))
	assert.True(t, isNoSuchKey(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNoSuchKey(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNoSuchKey(errors.New("timeout")))
}
