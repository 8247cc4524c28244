package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageLocal  = "local"
	StorageRemote = "remote"
)

// Config is the immutable process configuration, built once at startup and
// injected into every component. Handlers never read environment state.
type Config struct {
	AppPort     string
	Environment string // "development" or "production"

	MongoURI      string
	MongoDatabase string

	JWTSecret string

	AllowedOrigins string

	StorageDriver string
	UploadDir     string
	MaxFileSize   int64 // bytes, per file
	MaxFiles      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioFolder    string
	MinioUseSSL    bool

	// Optional: activity events are disabled when empty.
	EventsAMQPURL string
}

// Development reports whether the process runs in development mode.
// Error responses include internal detail only in this mode.
func (c *Config) Development() bool {
	return c.Environment != "production"
}

// Load reads configuration from environment variables via Viper.
// It returns an error naming every missing required variable, so the
// process refuses to start on incomplete configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_DATABASE", "frendora")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("UPLOAD_MAX_FILES", 5)
	v.SetDefault("MINIO_FOLDER", "uploads")
	v.SetDefault("MINIO_USE_SSL", true)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		Environment:    v.GetString("APP_ENV"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		StorageDriver:  v.GetString("STORAGE_DRIVER"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxFileSize:    v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
		MaxFiles:       v.GetInt("UPLOAD_MAX_FILES"),
		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioFolder:    v.GetString("MINIO_FOLDER"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		EventsAMQPURL:  v.GetString("EVENTS_AMQP_URL"),
	}

	var missing []string
	if cfg.AppPort == "" {
		missing = append(missing, "APP_PORT")
	}
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.StorageDriver == "" {
		missing = append(missing, "STORAGE_DRIVER")
	}
	if cfg.StorageDriver == StorageRemote {
		for _, pair := range []struct{ name, value string }{
			{"MINIO_ENDPOINT", cfg.MinioEndpoint},
			{"MINIO_ACCESS_KEY", cfg.MinioAccessKey},
			{"MINIO_SECRET_KEY", cfg.MinioSecretKey},
			{"MINIO_BUCKET", cfg.MinioBucket},
		} {
			if pair.value == "" {
				missing = append(missing, pair.name)
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.StorageDriver != StorageLocal && cfg.StorageDriver != StorageRemote {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: must be %q or %q", cfg.StorageDriver, StorageLocal, StorageRemote)
	}

	if !strings.HasPrefix(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}

	return cfg, nil
}

// Origins returns the allowed CORS origins as a slice.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
