package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Sheets    SheetsConfig
	Directory DirectoryConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	AllowedOrigins        string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig holds object storage values for the image cache.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Encoding    string
	Development bool
}

// AuthConfig defines operator authentication parameters.
// An empty secret leaves operator endpoints open.
type AuthConfig struct {
	OperatorJWTSecret string
}

// SheetsConfig points the loader at the spreadsheet backing the directory.
type SheetsConfig struct {
	SpreadsheetID string
	APIKey        string
	Endpoint      string
}

// Backend names accepted by DirectoryConfig.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMinIO    = "minio"
)

// DirectoryConfig tunes the refresh and presentation pipeline.
type DirectoryConfig struct {
	RefreshInterval     time.Duration
	LoadTimeout         time.Duration
	ImageCheckTimeout   time.Duration
	ImageConcurrency    int
	Locale              string
	SnapshotBackend     string
	ImageCacheBackend   string
	KeyPrefix           string
	FallbackImages      []string
	WarmImageCache      bool
	MaxCachedImageBytes int64
}

// DefaultFallbackImages is the ordered placeholder pool used for missing photos.
var DefaultFallbackImages = []string{
	"https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1539571696357-5a69c17a67c6?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1517841905240-472988babdf9?w=400&h=400&fit=crop",
	"https://images.unsplash.com/photo-1507591064344-4c6ce005b128?w=400&h=400&fit=crop",
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	refresh, err := time.ParseDuration(getEnv("DIRECTORY_REFRESH_INTERVAL", "10m"))
	if err != nil || refresh <= 0 {
		return nil, fmt.Errorf("invalid DIRECTORY_REFRESH_INTERVAL: %q", os.Getenv("DIRECTORY_REFRESH_INTERVAL"))
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "staff-directory"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			AllowedOrigins:        getEnv("HTTP_ALLOWED_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "staff-photos"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Encoding:    getEnv("LOG_ENCODING", "json"),
			Development: getEnv("APP_ENV", "development") == "development",
		},
		Auth: AuthConfig{
			OperatorJWTSecret: os.Getenv("AUTH_OPERATOR_JWT_SECRET"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: os.Getenv("GOOGLE_SHEETS_ID"),
			APIKey:        os.Getenv("GOOGLE_API_KEY"),
			Endpoint:      os.Getenv("GOOGLE_SHEETS_ENDPOINT"),
		},
		Directory: DirectoryConfig{
			RefreshInterval:     refresh,
			LoadTimeout:         getEnvAsDuration("DIRECTORY_LOAD_TIMEOUT", 2*time.Minute),
			ImageCheckTimeout:   getEnvAsDuration("DIRECTORY_IMAGE_CHECK_TIMEOUT", 5*time.Second),
			ImageConcurrency:    getEnvAsInt("DIRECTORY_IMAGE_CONCURRENCY", 8),
			Locale:              getEnv("DIRECTORY_LOCALE", "en"),
			SnapshotBackend:     strings.ToLower(getEnv("DIRECTORY_SNAPSHOT_BACKEND", BackendRedis)),
			ImageCacheBackend:   strings.ToLower(getEnv("DIRECTORY_IMAGE_CACHE_BACKEND", BackendRedis)),
			KeyPrefix:           getEnv("DIRECTORY_KEY_PREFIX", ""),
			FallbackImages:      getEnvAsList("DIRECTORY_FALLBACK_IMAGES", DefaultFallbackImages),
			WarmImageCache:      getEnvAsBool("DIRECTORY_WARM_IMAGE_CACHE", true),
			MaxCachedImageBytes: int64(getEnvAsInt("DIRECTORY_MAX_CACHED_IMAGE_BYTES", 5*1024*1024)),
		},
	}

	if err := cfg.Directory.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d DirectoryConfig) validate() error {
	switch d.SnapshotBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("invalid DIRECTORY_SNAPSHOT_BACKEND: %q", d.SnapshotBackend)
	}
	switch d.ImageCacheBackend {
	case BackendMemory, BackendRedis, BackendMinIO:
	default:
		return fmt.Errorf("invalid DIRECTORY_IMAGE_CACHE_BACKEND: %q", d.ImageCacheBackend)
	}
	if len(d.FallbackImages) == 0 {
		return fmt.Errorf("DIRECTORY_FALLBACK_IMAGES must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
