package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "./data/app.db", cfg.SQLiteDBPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.ProtectCatalog)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("PROTECT_CATALOG", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.ProtectCatalog)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel, "level comparison is case-insensitive")
}

func TestLoadConfigInvalidLogLevelFallsBack(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigProductionRequiresExplicitCORS(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))

	_, err := LoadConfig(nil)
	assert.Error(t, err)

	t.Setenv("CORS_ALLOW_ORIGINS", "https://admin.example.com")
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://admin.example.com", cfg.CORSAllowOrigins)
}

func TestLoadConfigCreatesUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	t.Setenv("APP_ENV", "local")
	t.Setenv("UPLOAD_DIR", dir)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.UploadDir)
	assert.DirExists(t, dir)
}
