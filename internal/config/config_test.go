package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 1000, cfg.Cache.LRUSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.RedisTTL)
	assert.Equal(t, "random", cfg.Shortener.Generator)
	assert.Equal(t, 7, cfg.Shortener.CodeLength)
	assert.Equal(t, 8, cfg.Shortener.MaxAttempts)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := `
server:
  port: 9090
  base_url: https://sho.rt
  write_timeout: 3s
store:
  driver: sqlite
  dsn: links.db
shortener:
  generator: hash
  code_length: 6
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("SHORTLINK_SERVER_PORT", "7070")
	t.Setenv("SHORTLINK_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHORTLINK_CACHE_REDIS_ADDR", "localhost:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://sho.rt", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "links.db", cfg.StoreOptions().DSN)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "hash", cfg.Shortener.Generator)
	assert.Equal(t, 6, cfg.Shortener.CodeLength)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHORTLINK_SHORTENER_MAX_ATTEMPTS=3\n"), 0o644))
	// godotenv never overwrites; t.Setenv restores the variable afterwards
	t.Setenv("SHORTLINK_SHORTENER_MAX_ATTEMPTS", "")
	require.NoError(t, os.Unsetenv("SHORTLINK_SHORTENER_MAX_ATTEMPTS"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Shortener.MaxAttempts)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"dsn", func(c *Config) { c.Store.Driver = "postgres" }},
		{"length", func(c *Config) { c.Shortener.CodeLength = 2 }},
		{"attempts", func(c *Config) { c.Shortener.MaxAttempts = 0 }},
		{"counter without redis", func(c *Config) { c.Shortener.Generator = "counter" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
