// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	LogLevel string `mapstructure:"log_level"`

	Storage struct {
		Backend    string `mapstructure:"backend"` // "memory" or "sqlite"
		Path       string `mapstructure:"path"`
		BufferSize int    `mapstructure:"buffer_size"` // per-device cap, memory backend only
	} `mapstructure:"storage"`

	Ingest struct {
		// Strict rejects samples whose device or metric id is unknown
		// on the HTTP ingest path. The generator only references
		// catalog entries and is unaffected.
		Strict       bool `mapstructure:"strict"`
		DefaultLimit int  `mapstructure:"default_limit"`
	} `mapstructure:"ingest"`

	Commands struct {
		Limit int `mapstructure:"limit"`
	} `mapstructure:"commands"`

	Generator struct {
		Enabled  bool          `mapstructure:"enabled"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"generator"`

	Validation struct {
		Rules map[string]Rule `mapstructure:"rules"`
	} `mapstructure:"validation"`

	Seed struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"seed"`
}

// Rule bounds a numeric metric to the closed interval [Min, Max].
type Rule struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Load reads configuration from environment variables and an optional
// config.yaml in path, falling back to defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	_ = v.ReadInConfig() // config file is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("server.port must be positive, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "memory" && cfg.Storage.Backend != "sqlite" {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Generator.Interval <= 0 {
		return nil, fmt.Errorf("generator.interval must be positive, got %s", cfg.Generator.Interval)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.path", "./data/telemetry.db")
	v.SetDefault("storage.buffer_size", 1000)
	v.SetDefault("ingest.strict", true)
	v.SetDefault("ingest.default_limit", 50)
	v.SetDefault("commands.limit", 5)
	v.SetDefault("generator.enabled", true)
	v.SetDefault("generator.interval", 3*time.Second)
	v.SetDefault("validation.rules", map[string]map[string]float64{
		"battery":     {"min": 0, "max": 100},
		"temperature": {"min": 0, "max": 80},
	})
	v.SetDefault("seed.enabled", true)
}
