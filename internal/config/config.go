// Package config loads application settings from defaults, an optional
// YAML file, a .env file and EGEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. EGEL_DB_PATH.
const EnvPrefix = "EGEL"

// Config holds all configuration for the application.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Service ServiceConfig `mapstructure:"service"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Render  RenderConfig  `mapstructure:"render"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Log     LogConfig     `mapstructure:"log"`
	Play    PlayConfig    `mapstructure:"play"`
}

// DBConfig selects the progress database.
type DBConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite | postgres
	Path          string `mapstructure:"path"`   // sqlite file; empty means the XDG default
	DSN           string `mapstructure:"dsn"`    // postgres connection string
	KeepSnapshots int    `mapstructure:"keep_snapshots"`
}

// ServiceConfig points at the diagram rendering and trace service.
type ServiceConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// CacheConfig enables the Redis response cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RenderConfig holds the diagram display defaults.
type RenderConfig struct {
	Unit          int    `mapstructure:"unit"`
	ShowGrid      bool   `mapstructure:"show_grid"`
	ShowMarks     bool   `mapstructure:"show_marks"`
	ColorMode     int    `mapstructure:"color_mode"`
	Align         string `mapstructure:"align"`
	SubPos        string `mapstructure:"sub_pos"`
	ShowRemainder bool   `mapstructure:"show_remainder"`
}

// LLMConfig configures the explanation provider. An empty or "auto"
// provider checks the standard API key variables.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// PlayConfig holds practice session behavior.
type PlayConfig struct {
	AdvanceDelay   time.Duration `mapstructure:"advance_delay"`
	AllowRemainder bool          `mapstructure:"allow_remainder"`
	Tracer         string        `mapstructure:"tracer"` // auto | local | remote | llm
	Seed           uint64        `mapstructure:"seed"`   // 0 means random
}

// Load reads configuration. path names an explicit config file; when empty,
// config.yaml is looked up in ~/.egel and the working directory and its
// absence is not an error.
func Load(path string) (*Config, error) {
	// A missing .env is fine; variables may come from the shell.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.keep_snapshots", 20)

	v.SetDefault("service.base_url", "")
	v.SetDefault("service.timeout", 5*time.Second)
	v.SetDefault("service.max_attempts", 3)
	v.SetDefault("service.breaker_failures", 5)
	v.SetDefault("service.breaker_timeout", 30*time.Second)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("render.unit", 56)
	v.SetDefault("render.show_grid", true)
	v.SetDefault("render.show_marks", true)
	v.SetDefault("render.color_mode", 1)
	v.SetDefault("render.align", "right")
	v.SetDefault("render.sub_pos", "top")
	v.SetDefault("render.show_remainder", true)

	v.SetDefault("llm.provider", "auto")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_attempts", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("play.advance_delay", 900*time.Millisecond)
	v.SetDefault("play.allow_remainder", false)
	v.SetDefault("play.tracer", "auto")
	v.SetDefault("play.seed", 0)
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite":
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn (EGEL_DB_DSN) is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q (want sqlite or postgres)", c.DB.Driver)
	}

	switch c.Play.Tracer {
	case "auto", "local", "remote", "llm":
	default:
		return fmt.Errorf("unknown play.tracer %q (want auto, local, remote or llm)", c.Play.Tracer)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// DefaultDir returns ~/.egel, the home of the config file and log file.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".egel"), nil
}

// LogFile returns the configured log file, defaulting to ~/.egel/egel.log.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "egel.log"), nil
}
