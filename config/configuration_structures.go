package config

import (
	"errors"
	"time"
)

const (
	defaultAccessTokenTTL  = 10 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	defaultMaxFileSizeMB   = 100
)

// DatabaseConfig : Driver принимает значения "postgres" или "mysql"
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MigrationURL string `yaml:"migration_url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Local     bool   `yaml:"local"`
}

// JWTConfig : два независимых секрета, чтобы секрет одного типа токена не позволял подделать другой
type JWTConfig struct {
	AccessSecret    string `yaml:"access_secret"`
	RefreshSecret   string `yaml:"refresh_secret"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// SessionConfig : Backend принимает значения "sql" или "redis"
type SessionConfig struct {
	Backend string `yaml:"backend"`
}

type UploadConfig struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb"`
}

type TTL struct {
	FileCache int `yaml:"file_cache"`
}

// AccessTTL : время жизни access токена, 10m если не задано или некорректно
func (c *JWTConfig) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return defaultAccessTokenTTL
	}
	return d
}

// RefreshTTL : время жизни refresh токена, 720h если не задано или некорректно
func (c *JWTConfig) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil || d <= 0 {
		return defaultRefreshTokenTTL
	}
	return d
}

func (c *JWTConfig) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("jwt: access_secret и refresh_secret обязательны")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("jwt: access_secret и refresh_secret должны различаться")
	}
	return nil
}

func (c *UploadConfig) MaxBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return defaultMaxFileSizeMB << 20
	}
	return c.MaxFileSizeMB << 20
}

func (t *TTL) FileCacheTTL() time.Duration {
	if t.FileCache <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(t.FileCache) * time.Second
}
