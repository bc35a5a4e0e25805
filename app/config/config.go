package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INKPRESS_DATABASE_DSN.
const EnvPrefix = "INKPRESS"

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Views    ViewsConfig    `mapstructure:"views"`
	Static   StaticConfig   `mapstructure:"static"`
	Site     SiteConfig     `mapstructure:"site"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Debug  bool   `mapstructure:"debug"`
}

// CacheConfig locates the Badger cache directory. Debug turns on Badger's
// informational logging.
type CacheConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
	Debug    bool   `mapstructure:"debug"`
}

type ViewsConfig struct {
	Dir string `mapstructure:"dir"`
}

type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// SiteConfig is shown on the about page.
type SiteConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/inkpress.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("cache.path", "data/cache")
	v.SetDefault("cache.in_memory", false)
	v.SetDefault("cache.debug", false)
	v.SetDefault("views.dir", "app/views")
	v.SetDefault("static.dir", "static")
	v.SetDefault("site.name", "My Blog")
	v.SetDefault("site.description", "A simple blog")
}

// Load reads configuration from an optional config file, a .env file and the
// environment, in increasing order of precedence. An empty configFile
// searches for config.yaml in . and ./config.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return errors.New("cache.path is required unless cache.in_memory is set")
	}
	return nil
}
