package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported local store drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	LMS      LMSConfig
	Offline  OfflineConfig
	Sync     SyncConfig
	CORS     CORSConfig
	Log      LogConfig
}

// DatabaseConfig describes the local mirror store. The mirror defaults to a
// file-based SQLite database; PostgreSQL is supported for shared deployments.
type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LMSConfig points the network data sources at the upstream LMS REST API.
type LMSConfig struct {
	BaseURL string
	Token   string
	PerPage int
	Timeout time.Duration
}

// OfflineConfig governs the account-level offline-mode feature flag lookup.
type OfflineConfig struct {
	FlagCacheTTL  time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// SyncConfig tunes the background course sync workers. BootstrapCourses are
// mirrored once at startup so a fresh deployment serves offline reads before
// the first on-demand sync arrives.
type SyncConfig struct {
	Workers          int
	QueueSize        int
	MaxRetries       int
	RetryDelay       time.Duration
	BootstrapCourses []int64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// With an explicit config file viper reports absence as a plain
		// fs.ErrNotExist, not ConfigFileNotFoundError. Both mean the same
		// thing here: env vars and defaults carry the config.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       v.GetString("DB_DRIVER"),
		Path:         v.GetString("DB_PATH"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.LMS = LMSConfig{
		BaseURL: strings.TrimRight(v.GetString("LMS_BASE_URL"), "/"),
		Token:   v.GetString("LMS_API_TOKEN"),
		PerPage: v.GetInt("LMS_PER_PAGE"),
		Timeout: parseDuration(v.GetString("LMS_TIMEOUT"), 30*time.Second),
	}

	cfg.Offline = OfflineConfig{
		FlagCacheTTL:  parseDuration(v.GetString("OFFLINE_FLAG_CACHE_TTL"), 10*time.Minute),
		ProbeInterval: parseDuration(v.GetString("CONNECTIVITY_PROBE_INTERVAL"), 15*time.Second),
		ProbeTimeout:  parseDuration(v.GetString("CONNECTIVITY_PROBE_TIMEOUT"), 3*time.Second),
	}

	bootstrap, err := parseIDList(v.GetString("SYNC_BOOTSTRAP_COURSES"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_BOOTSTRAP_COURSES: %w", err)
	}
	cfg.Sync = SyncConfig{
		Workers:          v.GetInt("SYNC_WORKERS"),
		QueueSize:        v.GetInt("SYNC_QUEUE_SIZE"),
		MaxRetries:       v.GetInt("SYNC_MAX_RETRIES"),
		RetryDelay:       parseDuration(v.GetString("SYNC_RETRY_DELAY"), 30*time.Second),
		BootstrapCourses: bootstrap,
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.LMS.BaseURL == "" {
		return errors.New("LMS_BASE_URL is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "mirror.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_mirror")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LMS_BASE_URL", "http://localhost:3000/api/v1")
	v.SetDefault("LMS_API_TOKEN", "")
	v.SetDefault("LMS_PER_PAGE", 100)
	v.SetDefault("LMS_TIMEOUT", "30s")

	v.SetDefault("OFFLINE_FLAG_CACHE_TTL", "10m")
	v.SetDefault("CONNECTIVITY_PROBE_INTERVAL", "15s")
	v.SetDefault("CONNECTIVITY_PROBE_TIMEOUT", "3s")

	v.SetDefault("SYNC_WORKERS", 2)
	v.SetDefault("SYNC_QUEUE_SIZE", 16)
	v.SetDefault("SYNC_MAX_RETRIES", 3)
	v.SetDefault("SYNC_RETRY_DELAY", "30s")
	v.SetDefault("SYNC_BOOTSTRAP_COURSES", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseIDList(raw string) ([]int64, error) {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("not a positive course id: %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
