// Package config loads the server configuration from a YAML file,
// environment variables prefixed with INNOVATION_ and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// EngineConfig bounds effect resolution.
type EngineConfig struct {
	MaxDepth         int `mapstructure:"max_depth"`
	MaxRepeat        int `mapstructure:"max_repeat"`
	DecisionAttempts int `mapstructure:"decision_attempts"`
	MaxAge           int `mapstructure:"max_age"`
	StartingHand     int `mapstructure:"starting_hand"`
}

// CatalogConfig says where card faces come from. An empty FacesPath uses
// the built-in base set.
type CatalogConfig struct {
	FacesPath string `mapstructure:"faces_path"`
}

// DatabaseConfig configures the Postgres card store. An empty URL disables
// it.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// ReplayConfig configures replay recording.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	MaxStates int    `mapstructure:"max_states"`
	Dir       string `mapstructure:"dir"`
}

// Load reads the configuration. With an empty path only defaults and
// environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INNOVATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
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

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	if c.Engine.MaxDepth < 1 {
		return fmt.Errorf("engine.max_depth must be positive, got %d", c.Engine.MaxDepth)
	}
	if c.Engine.MaxRepeat < 1 {
		return fmt.Errorf("engine.max_repeat must be positive, got %d", c.Engine.MaxRepeat)
	}
	if c.Engine.DecisionAttempts < 1 {
		return fmt.Errorf("engine.decision_attempts must be positive, got %d", c.Engine.DecisionAttempts)
	}
	if c.Engine.MaxAge < 1 || c.Engine.MaxAge > 10 {
		return fmt.Errorf("engine.max_age must be between 1 and 10, got %d", c.Engine.MaxAge)
	}
	if c.Replay.MaxStates < 0 {
		return fmt.Errorf("replay.max_states cannot be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.max_depth", 64)
	v.SetDefault("engine.max_repeat", 32)
	v.SetDefault("engine.decision_attempts", 3)
	v.SetDefault("engine.max_age", 10)
	v.SetDefault("engine.starting_hand", 2)

	v.SetDefault("catalog.faces_path", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.max_states", 256)
	v.SetDefault("replay.dir", "replays")
}
