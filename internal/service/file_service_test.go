package service_test

import (
	"context"
	"errors"
	"file-service/internal/model"
	"file-service/internal/service"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockFileRepository struct{ mock.Mock }

func (m *MockFileRepository) Create(ctx context.Context, file *model.File) error {
	args := m.Called(ctx, file)
	if args.Error(0) == nil {
		file.ID = 42
	}
	return args.Error(0)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id, userID int64) (*model.File, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) List(ctx context.Context, userID int64, limit, offset int) ([]model.File, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.File), args.Int(1), args.Error(2)
}

func (m *MockFileRepository) Update(ctx context.Context, file *model.File) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockFileRepository) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetFile(ctx context.Context, file *model.File) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockCacheRepository) GetFile(ctx context.Context, id int64) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockCacheRepository) DeleteFile(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, body, size, contentType).Error(0)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// ===== HELPERS =====

func newTestFileService() (*service.FileService, *MockFileRepository, *MockCacheRepository, *MockS3Storage) {
	fileRepo := new(MockFileRepository)
	cacheRepo := new(MockCacheRepository)
	storage := new(MockS3Storage)

	return service.NewFileService(fileRepo, cacheRepo, storage), fileRepo, cacheRepo, storage
}

func testUpload(name, mimeType, content string) *model.FileUpload {
	return &model.FileUpload{
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		Body:         strings.NewReader(content),
	}
}

func storedFile(id, userID int64) *model.File {
	return &model.File{
		ID:           id,
		UserID:       userID,
		Filename:     "stored.txt",
		OriginalName: "notes.txt",
		Extension:    "txt",
		MimeType:     "text/plain",
		Size:         5,
		StorageKey:   "users/1/files/01J0000000000000000000000.txt",
		UploadDate:   time.Now().UTC(),
	}
}

// ===== TESTS =====

func TestUpload_Success(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()
	ctx := context.Background()
	upload := testUpload("photo.JPG", "image/jpeg", "hello")

	storage.On("PutObject", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "users/1/files/") && strings.HasSuffix(key, ".JPG")
	}), upload.Body, int64(5), "image/jpeg").Return(nil)
	fileRepo.On("Create", ctx, mock.Anything).Return(nil)

	file, err := svc.Upload(ctx, 1, upload)

	require.NoError(t, err)
	assert.Equal(t, int64(42), file.ID)
	assert.Equal(t, int64(1), file.UserID)
	assert.Equal(t, "photo.JPG", file.OriginalName)
	assert.Equal(t, "JPG", file.Extension)
	assert.True(t, strings.HasSuffix(file.Filename, ".JPG"))
	assert.NotEqual(t, "photo.JPG", file.Filename)
	storage.AssertExpectations(t)
	fileRepo.AssertExpectations(t)
}

func TestUpload_DefaultMimeType(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()
	ctx := context.Background()

	storage.On("PutObject", ctx, mock.Anything, mock.Anything, int64(3), "application/octet-stream").Return(nil)
	fileRepo.On("Create", ctx, mock.Anything).Return(nil)

	file, err := svc.Upload(ctx, 1, testUpload("blob", "", "abc"))

	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", file.MimeType)
	assert.Equal(t, "", file.Extension)
}

func TestUpload_StorageError(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()
	ctx := context.Background()

	storage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 down"))

	_, err := svc.Upload(ctx, 1, testUpload("a.txt", "text/plain", "a"))

	assert.Error(t, err)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// строка в БД не записалась - объект в хранилище не должен остаться
func TestUpload_DatabaseErrorRemovesObject(t *testing.T) {
	svc, fileRepo, _, storage := newTestFileService()
	ctx := context.Background()

	var key string
	storage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { key = args.String(1) }).
		Return(nil)
	fileRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))
	storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

	_, err := svc.Upload(ctx, 1, testUpload("a.txt", "text/plain", "a"))

	assert.Error(t, err)
	storage.AssertCalled(t, "DeleteObject", ctx, key)
}

func TestList_InvalidParams(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()

	for _, tc := range []struct{ pageSize, page int }{{-1, 1}, {10, -2}, {0, 1}} {
		_, err := svc.List(context.Background(), 1, tc.pageSize, tc.page)
		assert.ErrorIs(t, err, service.ErrInvalidParams)
	}
	fileRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestList_Pagination(t *testing.T) {
	svc, fileRepo, _, _ := newTestFileService()
	ctx := context.Background()
	files := []model.File{*storedFile(3, 1), *storedFile(2, 1)}

	fileRepo.On("List", ctx, int64(1), 2, 2).Return(files, 5, nil)

	page, err := svc.List(ctx, 1, 2, 2)

	require.NoError(t, err)
	assert.Equal(t, files, page.Files)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
}

func TestGet_CacheHit(t *testing.T) {
	svc, fileRepo, cacheRepo, _ := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(file, nil)

	result, err := svc.Get(ctx, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, file, result)
	fileRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

// закэшированный файл другого пользователя не отдаётся
func TestGet_CachedForeignFileGoesToDatabase(t *testing.T) {
	svc, fileRepo, cacheRepo, _ := newTestFileService()
	ctx := context.Background()

	cacheRepo.On("GetFile", ctx, int64(5)).Return(storedFile(5, 2), nil)
	fileRepo.On("FindByID", ctx, int64(5), int64(1)).Return(nil, model.ErrNotFound)

	_, err := svc.Get(ctx, 1, 5)

	assert.ErrorIs(t, err, service.ErrFileNotFound)
}

func TestGet_CacheMissStoresInCache(t *testing.T) {
	svc, fileRepo, cacheRepo, _ := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(nil, nil)
	fileRepo.On("FindByID", ctx, int64(5), int64(1)).Return(file, nil)
	cacheRepo.On("SetFile", ctx, file).Return(nil)

	result, err := svc.Get(ctx, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, file, result)
	cacheRepo.AssertExpectations(t)
}

func TestGet_CacheErrorFallsBackToDatabase(t *testing.T) {
	svc, fileRepo, cacheRepo, _ := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(nil, errors.New("redis down"))
	fileRepo.On("FindByID", ctx, int64(5), int64(1)).Return(file, nil)
	cacheRepo.On("SetFile", ctx, file).Return(errors.New("redis down"))

	result, err := svc.Get(ctx, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, file, result)
}

func TestDownload_ObjectMissing(t *testing.T) {
	svc, _, cacheRepo, storage := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(file, nil)
	storage.On("GetObject", ctx, file.StorageKey).Return(nil, model.ErrObjectNotFound)

	_, _, err := svc.Download(ctx, 1, 5)

	assert.ErrorIs(t, err, service.ErrFileNotInStorage)
}

func TestDownload_Success(t *testing.T) {
	svc, _, cacheRepo, storage := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(file, nil)
	storage.On("GetObject", ctx, file.StorageKey).Return(io.NopCloser(strings.NewReader("hello")), nil)

	result, body, err := svc.Download(ctx, 1, 5)
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.Equal(t, file, result)
}

func TestDelete_Success(t *testing.T) {
	svc, fileRepo, cacheRepo, storage := newTestFileService()
	ctx := context.Background()
	file := storedFile(5, 1)

	cacheRepo.On("GetFile", ctx, int64(5)).Return(file, nil)
	fileRepo.On("Delete", ctx, int64(5), int64(1)).Return(nil)
	cacheRepo.On("DeleteFile", ctx, int64(5)).Return(nil)
	storage.On("DeleteObject", ctx, file.StorageKey).Return(errors.New("no such key"))

	err := svc.Delete(ctx, 1, 5)

	assert.NoError(t, err)
	fileRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	svc, fileRepo, cacheRepo, _ := newTestFileService()
	ctx := context.Background()

	cacheRepo.On("GetFile", ctx, int64(5)).Return(nil, nil)
	fileRepo.On("FindByID", ctx, int64(5), int64(1)).Return(nil, model.ErrNotFound)

	err := svc.Delete(ctx, 1, 5)

	assert.ErrorIs(t, err, service.ErrFileNotFound)
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplace_Success(t *testing.T) {
	svc, fileRepo, cacheRepo, storage := newTestFileService()
	ctx := context.Background()
	oldFile := storedFile(5, 1)
	upload := testUpload("report.pdf", "application/pdf", "pdf!")

	cacheRepo.On("GetFile", ctx, int64(5)).Return(oldFile, nil)
	storage.On("PutObject", ctx, mock.Anything, upload.Body, int64(4), "application/pdf").Return(nil)
	fileRepo.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
		return f.ID == 5 && f.OriginalName == "report.pdf" && f.StorageKey != oldFile.StorageKey
	})).Return(nil)
	cacheRepo.On("DeleteFile", ctx, int64(5)).Return(nil)
	storage.On("DeleteObject", ctx, oldFile.StorageKey).Return(nil)

	file, err := svc.Replace(ctx, 1, 5, upload)

	require.NoError(t, err)
	assert.Equal(t, "pdf", file.Extension)
	assert.Equal(t, int64(4), file.Size)
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}
