package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := LoadFrom(t.TempDir())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, uint64(5), cfg.Database.ConnectRetries)
	assert.Equal(t, "en", cfg.Assistant.DefaultLocale)
	assert.Equal(t, 3, cfg.QR.MaxCodes)
	assert.Equal(t, 256, cfg.QR.Size)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("QR_MAX_CODES", "5")
	t.Setenv("ASSISTANT_DEFAULT_LOCALE", "fr")

	cfg := LoadFrom(t.TempDir())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.QR.MaxCodes)
	assert.Equal(t, "fr", cfg.Assistant.DefaultLocale)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_USER=stock\nRATE_LIMIT_REQUESTS=7\n"), 0o600))

	cfg := LoadFrom(dir)

	assert.Equal(t, "stock", cfg.Database.User)
	assert.Equal(t, 7, cfg.RateLimit.Requests)
}

func TestLoadLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DB_DATABASE=local_inventory\n"), 0o600))
	t.Setenv("SERVER_ENV", "local")
	// godotenv sets variables that t.Setenv cannot restore
	t.Cleanup(func() { os.Unsetenv("DB_DATABASE") })

	cfg := LoadFrom(dir)

	assert.Equal(t, "local_inventory", cfg.Database.Database)
}

func TestDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "p@ss", Database: "inventory", Schema: "public",
	}}

	assert.Equal(t, "postgres://app:p%40ss@db:5432/inventory?sslmode=disable&search_path=public", cfg.DSN())
}
