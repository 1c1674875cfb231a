package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost dbname=shop")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("STORAGE_PROVIDER", "local")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "host=localhost dbname=shop", cfg.Database.DSN)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.StorefrontTTL)
	assert.Equal(t, time.Second, cfg.Server.AuthCooldown)
	assert.EqualValues(t, 32<<20, cfg.Server.MaxMultipartMemory)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("database:\n  dsn: file-dsn\nstorage:\n  provider: s3\n  bucket: shop-images\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "file-dsn", cfg.Database.DSN)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "shop-images", cfg.Storage.Bucket)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"缺少DSN", Config{Storage: StorageConfig{Provider: "local"}}, true},
		{"未知存储", Config{Database: DatabaseConfig{DSN: "x"}, Storage: StorageConfig{Provider: "ftp"}}, true},
		{"S3缺少bucket", Config{Database: DatabaseConfig{DSN: "x"}, Storage: StorageConfig{Provider: "s3"}}, true},
		{"本地存储", Config{Database: DatabaseConfig{DSN: "x"}, Storage: StorageConfig{Provider: "local"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
