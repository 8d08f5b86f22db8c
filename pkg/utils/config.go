package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Database  DatabaseConfig
	File      FileConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Broker    BrokerConfig
	Docs      DocsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageConfig selects which backend serves the repositories.
type StorageConfig struct {
	Backend string
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type FileConfig struct {
	DataDir string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type BrokerConfig struct {
	URL      string
	Exchange string
}

type DocsConfig struct {
	Enabled bool
	Path    string
}

// LoadConfig reads an optional .env file and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_NAME", "movie-catalog")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("STORAGE_BACKEND", BackendMongo)
	v.SetDefault("MONGO_DATABASE", "movies")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DATA_DIR", "db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("AMQP_EXCHANGE", "catalog.events")
	v.SetDefault("DOCS_ENABLED", true)
	v.SetDefault("DOCS_PATH", "/api-docs")

	mongoURI := v.GetString("MONGO_URI")
	if mongoURI == "" {
		// HOST_URI is the variable name older deployments used.
		mongoURI = v.GetString("HOST_URI")
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Server: ServerConfig{
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		},
		Mongo: MongoConfig{
			URI:      mongoURI,
			Database: v.GetString("MONGO_DATABASE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		File: FileConfig{
			DataDir: v.GetString("DATA_DIR"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
		},
		Broker: BrokerConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		Docs: DocsConfig{
			Enabled: v.GetBool("DOCS_ENABLED"),
			Path:    v.GetString("DOCS_PATH"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the %s backend", BackendMongo)
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required for the %s backend", BackendMongo)
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the %s backend", BackendPostgres)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required for the %s backend", BackendPostgres)
		}
		if c.Database.MaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
	case BackendFile:
		if c.File.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the %s backend", BackendFile)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND %q is not supported (use %s, %s or %s)",
			c.Storage.Backend, BackendMongo, BackendPostgres, BackendFile)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("RATE_LIMIT_BURST must be positive")
		}
	}

	return nil
}
