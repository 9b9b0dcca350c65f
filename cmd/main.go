package main

import (
	"context"
	"file-service/config"
	_ "file-service/docs"
	"file-service/internal/handler"
	"file-service/internal/metrics"
	"file-service/internal/ports"
	"file-service/internal/repository"
	"file-service/internal/security"
	"file-service/internal/service"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title File Service
// @version 1.0
// @description REST API для хранения файлов пользователей с JWT-аутентификацией по устройствам

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := "config.yaml"
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		configPath = path
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(&cfg.DatabaseConfig)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	registry := metrics.NewRegistry()
	authMetrics := metrics.NewAuthMetrics(registry)

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.TTL.FileCacheTTL())
	sessionStore := newSessionStore(cfg, db, redisClient)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	sessionService := service.NewSessionService(sessionStore, &cfg.JWT, service.WithMetrics(authMetrics))
	authService := service.NewAuthenticationService(userRepo, sessionService)
	fileService := service.NewFileService(fileRepo, cacheRepo, s3Service)

	authHandler := handler.NewAuthenticationHandler(authService, sessionService)
	fileHandler := handler.NewFileHandler(fileService, cfg.Upload.MaxBytes())

	router.NotFound(handler.NotFound)
	router.Get("/", handler.Root)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/metrics", metrics.Handler(registry))

	setupAuthRoutes(router, authHandler, sessionService)
	setupFileRoutes(router, fileHandler, sessionService)

	runServer(ctx, srv)
}

// newSessionStore : хранилище refresh токенов выбирается параметром session.backend
func newSessionStore(cfg *config.AppConfig, db *config.Database, redisClient *config.RedisClient) ports.SessionStore {
	if cfg.Session.Backend == "redis" {
		log.Println("сессии хранятся в Redis")
		return repository.NewRedisSessionRepository(redisClient)
	}
	return repository.NewSessionRepository(db)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, authenticator security.Authenticator) {
	r.Post("/signup", h.Signup)
	r.Post("/signin", h.Signin)
	r.Post("/signin/new_token", h.RefreshToken)

	r.Group(func(r chi.Router) {
		r.Use(security.JWTMiddleware(authenticator))
		r.Get("/logout", h.Logout)
		r.Get("/info", h.Info)
	})
}

func setupFileRoutes(r chi.Router, h *handler.FileHandler, authenticator security.Authenticator) {
	r.Route("/file", func(r chi.Router) {
		r.Use(security.JWTMiddleware(authenticator))
		r.Post("/upload", h.UploadFile)
		r.Get("/list", h.ListFiles)
		r.Get("/download/{id}", h.DownloadFile)
		r.Delete("/delete/{id}", h.DeleteFile)
		r.Put("/update/{id}", h.UpdateFile)
		r.Get("/{id}", h.GetFile)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
