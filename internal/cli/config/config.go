package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dougwollison/index-pages/internal/links"
	"github.com/dougwollison/index-pages/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. INDEXPAGES_STORAGE_DRIVER
const EnvPrefix = "INDEXPAGES"

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Config represents the index pages service configuration
type Config struct {
	Site       SiteConfig        `mapstructure:"site"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.Config    `mapstructure:"log"`
	Permalinks links.Permastruct `mapstructure:"permalinks"`
}

// SiteConfig points at the content fixture
type SiteConfig struct {
	File    string `mapstructure:"file"`
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig selects the option store
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	DSN      string         `mapstructure:"dsn"`
	Table    string         `mapstructure:"table"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
}

// DynamoDBConfig configures the DynamoDB option store
type DynamoDBConfig struct {
	Table     string `mapstructure:"table"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CacheConfig configures the option read cache
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
	Memory    bool          `mapstructure:"memory"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads the configuration from indexpages.yml (or the file at path,
// when given), a .env file and INDEXPAGES_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("indexpages")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	perma := links.DefaultPermastruct()

	v.SetDefault("site.file", "")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.table", "options")
	v.SetDefault("storage.dynamodb.table", "")
	v.SetDefault("storage.dynamodb.region", "")
	v.SetDefault("storage.dynamodb.endpoint", "")
	v.SetDefault("storage.dynamodb.access_key", "")
	v.SetDefault("storage.dynamodb.secret_key", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.memory", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("permalinks.year", perma.Year)
	v.SetDefault("permalinks.month", perma.Month)
	v.SetDefault("permalinks.day", perma.Day)
	v.SetDefault("permalinks.trailing_slash", perma.TrailingSlash)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPgx, DriverPostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", cfg.Storage.Driver)
		}
	case DriverDynamoDB:
		if cfg.Storage.DynamoDB.Table == "" {
			return fmt.Errorf("storage.dynamodb.table is required for driver %q", cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (expected memory, sqlite3, pgx, postgres or dynamodb)", cfg.Storage.Driver)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got: %s", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisAddr != "" && cfg.Cache.Memory {
		return fmt.Errorf("cache.redis_addr and cache.memory are mutually exclusive")
	}
	if !strings.HasPrefix(cfg.Site.BaseURL, "http://") && !strings.HasPrefix(cfg.Site.BaseURL, "https://") {
		return fmt.Errorf("site.base_url must be an http(s) URL, got: %s", cfg.Site.BaseURL)
	}
	return nil
}
