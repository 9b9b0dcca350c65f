package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
jwt:
  access_secret: a
  refresh_secret: b
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "postgres", cfg.DatabaseConfig.Driver)
	assert.Equal(t, "sql", cfg.Session.Backend)
	assert.Equal(t, 10*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, 720*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, int64(100<<20), cfg.Upload.MaxBytes())
	assert.Equal(t, 5*time.Minute, cfg.TTL.FileCacheTTL())
}

func TestParseConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_ACCESS_SECRET", "from-env-access")
	t.Setenv("TEST_REFRESH_SECRET", "from-env-refresh")

	cfg, err := ParseConfig([]byte(`
serverAddr: ":9090"
databaseConfig:
  driver: mysql
  dsn: "user:pass@tcp(localhost:3306)/files?parseTime=true"
jwt:
  access_secret: "${TEST_ACCESS_SECRET}"
  refresh_secret: "${TEST_REFRESH_SECRET}"
  access_token_ttl: 15m
  refresh_token_ttl: 48h
session:
  backend: redis
upload:
  max_file_size_mb: 5
TTL:
  file_cache: 60
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "mysql", cfg.DatabaseConfig.Driver)
	assert.Equal(t, "from-env-access", cfg.JWT.AccessSecret)
	assert.Equal(t, "from-env-refresh", cfg.JWT.RefreshSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, 48*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes())
	assert.Equal(t, time.Minute, cfg.TTL.FileCacheTTL())
}

func TestParseConfig_Secrets(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"missing", `jwt: {}`},
		{"only access", `jwt: {access_secret: a}`},
		{"identical", `jwt: {access_secret: same, refresh_secret: same}`},
		{"unset env", `jwt: {access_secret: "${TEST_UNSET_SECRET}", refresh_secret: b}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_UnknownSessionBackend(t *testing.T) {
	_, err := ParseConfig([]byte(`
jwt: {access_secret: a, refresh_secret: b}
session: {backend: memcached}
`))
	assert.ErrorContains(t, err, "memcached")
}

func TestJWTConfig_InvalidDurationsFallBack(t *testing.T) {
	cfg := JWTConfig{AccessTokenTTL: "soon", RefreshTokenTTL: "-1h"}

	assert.Equal(t, 10*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL())
}

func TestNewDatabaseConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabaseConnection("sqlite3", "file.db")
	assert.Error(t, err)
}
