// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Drive     DriveConfig
	Analytics AnalyticsConfig
	Catalog   domain.Catalog
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	LogFormat      string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// URL is used by the pgx bulk loader; built from the fields above when empty.
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// MaxWriters bounds concurrent write transactions.
	MaxWriters int
}

type AppConfig struct {
	// Store selects the record store backend: "memory" or "postgres".
	Store     string
	UploadDir string
	DataDir   string
	// MaxUploadMB bounds multipart import bodies.
	MaxUploadMB int64
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// StorageConfig describes the S3-compatible bucket import files are archived to.
type StorageConfig struct {
	Enabled       bool
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	ArchivePrefix string
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
	DownloadDir     string
}

// AnalyticsConfig holds the engine defaults applied when a request omits them.
type AnalyticsConfig struct {
	Clusters        int
	Iterations      int
	StopWhenStable  bool
	LedgerLimit     int
	SmoothingWindow int
	SampleFallback  bool
	SampleSeed      uint64
	SampleDays      int
	CatalogFile     string
}

var (
	once     sync.Once
	instance *Config
)

// Load returns the process-wide configuration, reading it on first use.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		cfg, err := New()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// Ensure upload and data directories exist
		ensureDir(cfg.App.UploadDir)
		ensureDir(cfg.App.DataDir)

		instance = cfg
	})

	return instance
}

// New reads the configuration from the environment without caching it.
func New() (*Config, error) {
	setDefaults()

	// Read from environment variables
	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			LogFormat:      viper.GetString("LOG_FORMAT"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			URL:      viper.GetString("DATABASE_URL"),

			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			MaxWriters:      viper.GetInt("DB_MAX_WRITERS"),
		},
		App: AppConfig{
			Store:       viper.GetString("APP_STORE"),
			UploadDir:   viper.GetString("APP_UPLOAD_DIR"),
			DataDir:     viper.GetString("APP_DATA_DIR"),
			MaxUploadMB: viper.GetInt64("APP_MAX_UPLOAD_MB"),
		},
		Cache: CacheConfig{
			Enabled:             viper.GetBool("CACHE_ENABLED"),
			RedisURL:            viper.GetString("REDIS_URL"),
			RedisHost:           viper.GetString("REDIS_HOST"),
			RedisPort:           viper.GetString("REDIS_PORT"),
			RedisPassword:       viper.GetString("REDIS_PASSWORD"),
			RedisDB:             viper.GetInt("REDIS_DB"),
			DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:       viper.GetBool("STORAGE_ENABLED"),
			Endpoint:      viper.GetString("STORAGE_ENDPOINT"),
			AccessKey:     viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:        viper.GetString("STORAGE_BUCKET"),
			Region:        viper.GetString("STORAGE_REGION"),
			UseSSL:        viper.GetBool("STORAGE_USE_SSL"),
			ArchivePrefix: viper.GetString("STORAGE_ARCHIVE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
			DownloadDir:     viper.GetString("DRIVE_DOWNLOAD_DIR"),
		},
		Analytics: AnalyticsConfig{
			Clusters:        viper.GetInt("ANALYTICS_CLUSTERS"),
			Iterations:      viper.GetInt("ANALYTICS_ITERATIONS"),
			StopWhenStable:  viper.GetBool("ANALYTICS_STOP_WHEN_STABLE"),
			LedgerLimit:     viper.GetInt("ANALYTICS_LEDGER_LIMIT"),
			SmoothingWindow: viper.GetInt("ANALYTICS_SMOOTHING_WINDOW"),
			SampleFallback:  viper.GetBool("ANALYTICS_SAMPLE_FALLBACK"),
			SampleSeed:      viper.GetUint64("ANALYTICS_SAMPLE_SEED"),
			SampleDays:      viper.GetInt("ANALYTICS_SAMPLE_DAYS"),
			CatalogFile:     viper.GetString("CATALOG_FILE"),
		},
	}

	catalog, err := LoadCatalog(cfg.Analytics.CatalogFile)
	if err != nil {
		return nil, err
	}
	cfg.Catalog = catalog

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "logistics")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MAX_WRITERS", 10)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("APP_STORE", "memory")
	viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
	viper.SetDefault("APP_DATA_DIR", "./data/output")
	viper.SetDefault("APP_MAX_UPLOAD_MB", 32)
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_ARCHIVE_PREFIX", "imports")
	viper.SetDefault("DRIVE_DOWNLOAD_DIR", "./data/tmp/drive")
	viper.SetDefault("ANALYTICS_CLUSTERS", 3)
	viper.SetDefault("ANALYTICS_ITERATIONS", 10)
	viper.SetDefault("ANALYTICS_STOP_WHEN_STABLE", false)
	viper.SetDefault("ANALYTICS_LEDGER_LIMIT", 20)
	viper.SetDefault("ANALYTICS_SMOOTHING_WINDOW", 7)
	viper.SetDefault("ANALYTICS_SAMPLE_FALLBACK", true)
	viper.SetDefault("ANALYTICS_SAMPLE_SEED", 42)
	viper.SetDefault("ANALYTICS_SAMPLE_DAYS", 200)
	viper.SetDefault("CATALOG_FILE", "")
}

// DSN renders the lib/pq keyword connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConnString returns URL, or a postgres:// URL built from the individual
// fields when URL is empty.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
