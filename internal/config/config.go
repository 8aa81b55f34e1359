package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Siddarth2230/shortlink/internal/repository"
	"github.com/Siddarth2230/shortlink/pkg/idgen"
)

// EnvPrefix namespaces environment overrides, e.g. SHORTLINK_STORE_DSN.
const EnvPrefix = "SHORTLINK"

type Config struct {
	Server struct {
		Port           int           `mapstructure:"port"`
		BaseURL        string        `mapstructure:"base_url"`
		ReadTimeout    time.Duration `mapstructure:"read_timeout"`
		WriteTimeout   time.Duration `mapstructure:"write_timeout"`
		IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
		AllowedOrigins []string      `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`

	Store struct {
		Driver      string `mapstructure:"driver"`
		DSN         string `mapstructure:"dsn"`
		Journal     string `mapstructure:"journal"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"store"`

	Cache struct {
		LRUSize   int           `mapstructure:"lru_size"`
		RedisAddr string        `mapstructure:"redis_addr"`
		RedisTTL  time.Duration `mapstructure:"redis_ttl"`
	} `mapstructure:"cache"`

	Shortener struct {
		Generator   string `mapstructure:"generator"`
		CodeLength  int    `mapstructure:"code_length"`
		MaxAttempts int    `mapstructure:"max_attempts"`
		NodeID      uint64 `mapstructure:"node_id"`
	} `mapstructure:"shortener"`
}

// Load reads .env, then config.yaml (from configFile, or ./configs and .),
// then SHORTLINK_* environment variables. Later sources win. A missing
// config file is not an error.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("no config file found, using defaults and environment")
	} else {
		log.Printf("config loaded from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.journal", "")
	v.SetDefault("store.auto_migrate", true)

	v.SetDefault("cache.lru_size", 1000)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_ttl", 5*time.Minute)

	v.SetDefault("shortener.generator", "random")
	v.SetDefault("shortener.code_length", idgen.DefaultLength)
	v.SetDefault("shortener.max_attempts", 8)
	v.SetDefault("shortener.node_id", 0)
}

// Validate rejects settings that would only fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Store.Driver {
	case "memory", "postgres", "pgx", "sqlite":
	default:
		return fmt.Errorf("store.driver %q: want memory, postgres, pgx or sqlite", c.Store.Driver)
	}
	if c.Store.Driver != "memory" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
	}
	if c.Shortener.CodeLength < idgen.MinLength || c.Shortener.CodeLength > idgen.MaxLength {
		return fmt.Errorf("shortener.code_length: %w", idgen.ErrInvalidLength)
	}
	if c.Shortener.MaxAttempts < 1 {
		return errors.New("shortener.max_attempts must be at least 1")
	}
	if c.Shortener.Generator == "counter" && c.Cache.RedisAddr == "" {
		return errors.New("shortener.generator counter requires cache.redis_addr")
	}
	return nil
}

// StoreOptions adapts the store section for repository.Open.
func (c *Config) StoreOptions() repository.Options {
	return repository.Options{
		Driver:  c.Store.Driver,
		DSN:     c.Store.DSN,
		Journal: c.Store.Journal,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
