package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"file-service/config"
	"file-service/internal/handler"
	"file-service/internal/model"
	"file-service/internal/ports"
	"file-service/internal/repository"
	"file-service/internal/security"
	"file-service/internal/service"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockAuthenticationService struct{ mock.Mock }

func (m *MockAuthenticationService) Signup(ctx context.Context, login, password string) (*model.TokensPair, error) {
	args := m.Called(ctx, login, password)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticationService) Signin(ctx context.Context, login, password string) (*model.TokensPair, error) {
	args := m.Called(ctx, login, password)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== HELPERS =====

type testServer struct {
	router   *chi.Mux
	sessions *service.SessionService
	auth     *MockAuthenticationService
	files    *MockFileService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &config.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })

	sessions := service.NewSessionService(repository.NewRedisSessionRepository(client), &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	})
	auth := new(MockAuthenticationService)
	files := new(MockFileService)

	router := newRouter(auth, sessions, files, 1<<20)
	return &testServer{router: router, sessions: sessions, auth: auth, files: files}
}

func newRouter(auth ports.AuthenticationService, sessions ports.SessionService, files ports.FileService, maxBytes int64) *chi.Mux {
	authHandler := handler.NewAuthenticationHandler(auth, sessions)
	fileHandler := handler.NewFileHandler(files, maxBytes)

	router := chi.NewRouter()
	router.NotFound(handler.NotFound)
	router.Get("/", handler.Root)
	router.Post("/signup", authHandler.Signup)
	router.Post("/signin", authHandler.Signin)
	router.Post("/signin/new_token", authHandler.RefreshToken)
	router.Group(func(r chi.Router) {
		r.Use(security.JWTMiddleware(sessions))
		r.Get("/logout", authHandler.Logout)
		r.Get("/info", authHandler.Info)
	})
	router.Route("/file", func(r chi.Router) {
		r.Use(security.JWTMiddleware(sessions))
		r.Post("/upload", fileHandler.UploadFile)
		r.Get("/list", fileHandler.ListFiles)
		r.Get("/download/{id}", fileHandler.DownloadFile)
		r.Delete("/delete/{id}", fileHandler.DeleteFile)
		r.Put("/update/{id}", fileHandler.UpdateFile)
		r.Get("/{id}", fileHandler.GetFile)
	})
	return router
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	return s.do(t, method, path, token, &body, "application/json")
}

// issue : настоящая сессия в miniredis для пользователя 1
func (s *testServer) issue(t *testing.T) *model.TokensPair {
	t.Helper()

	tokens, err := s.sessions.Issue(context.Background(), &model.User{ID: 1, Login: "u1@example.com"})
	require.NoError(t, err)
	return tokens
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
