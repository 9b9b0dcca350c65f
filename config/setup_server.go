package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	S3Config       S3Config       `yaml:"s3Config"`
	JWT            JWTConfig      `yaml:"jwt"`
	Session        SessionConfig  `yaml:"session"`
	Upload         UploadConfig   `yaml:"upload"`
	TTL            TTL            `yaml:"TTL"`
}

// LoadConfig : читает yaml, подставляя ${VAR} из окружения (секреты не хранятся в файле)
func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(file)
}

func ParseConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.DatabaseConfig.Driver == "" {
		cfg.DatabaseConfig.Driver = "postgres"
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "sql"
	}

	if err := cfg.JWT.Validate(); err != nil {
		return nil, err
	}
	if cfg.Session.Backend != "sql" && cfg.Session.Backend != "redis" {
		return nil, fmt.Errorf("session: неизвестный backend %q", cfg.Session.Backend)
	}

	return &cfg, nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(cfg *DatabaseConfig) (*Database, error) {
	return NewDatabaseConnection(cfg.Driver, cfg.DSN)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
