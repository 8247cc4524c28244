package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frendora/internal/config"
)

// setRequired sets the minimal environment for a local-storage process.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "4000")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("STORAGE_DRIVER", "local")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, ":4000", cfg.AppPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "frendora", cfg.MongoDatabase)
	assert.Equal(t, config.StorageLocal, cfg.StorageDriver)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.True(t, cfg.Development())
}

func TestLoadMissingVariables(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "")

	_, err := config.Load()
	assert.Error(t, err)
	// The error names every missing variable at once.
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoadRemoteDriverRequiresMinio(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "remote")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")
	t.Setenv("MINIO_BUCKET", "")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MINIO_ENDPOINT")
	assert.Contains(t, err.Error(), "MINIO_BUCKET")

	t.Setenv("MINIO_ENDPOINT", "minio.local:9000")
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_BUCKET", "media")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, config.StorageRemote, cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.MinioFolder)
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoadKeepsColonPrefix(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", ":5000")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, ":5000", cfg.AppPort)
}

func TestProductionMode(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.False(t, cfg.Development())
}

func TestOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Origins())
}
