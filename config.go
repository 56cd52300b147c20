package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listen settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// CacheConfig holds the API response cache settings
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// SQLConfig holds DSNs for the warehouse drivers that take a plain DSN
type SQLConfig struct {
	MySQLDSN    string `mapstructure:"mysql_dsn"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// SnowflakeConfig holds the Snowflake connection parameters, usually supplied
// through the credentials file rather than flags or env
type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Role      string `mapstructure:"role"`
	Warehouse string `mapstructure:"warehouse"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
}

// Config is the full application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	SQL       SQLConfig       `mapstructure:"sql"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
}

// LoadConfig reads dashboard.yaml from the working directory (if present) and
// applies DASHBOARD_* environment overrides on top of the defaults. A missing
// config file is fine; missing Snowflake credentials only matter when a
// Snowflake query is actually run.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("dashboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("cache.path", "api_cache.db")
	v.SetDefault("cache.ttl", time.Hour)

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = time.Hour
	}
	return &cfg, nil
}
