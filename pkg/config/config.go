package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"FinCast/internal/service/cache"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		BodyLimit       string        `yaml:"body_limit" default:"8M"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"5s"`
		DisableCORS     bool          `yaml:"disable_cors"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"5" validate:"gte=0"`
			Burst int     `yaml:"burst" default:"10" validate:"gte=0"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Logger   applogger.Config `yaml:"logger"`
	Forecast struct {
		WindowLength int `yaml:"window_length" validate:"gte=0"`
		MaxHorizon   int `yaml:"max_horizon" default:"60" validate:"gte=1"`
		MaxRows      int `yaml:"max_rows" default:"20000" validate:"gte=1"`
		// Verbosity of estimator fit logs: 0 silent, 1 per fit, 2 per round.
		Verbosity int `yaml:"verbosity" validate:"gte=0,lte=2"`
	} `yaml:"forecast"`
	Cache cache.Config `yaml:"cache"`
}

var validate = validator.New()

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with FINCAST_* environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINCAST_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("FINCAST_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FINCAST_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("FINCAST_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("FINCAST_LOG_FORMAT"); v != "" {
		c.Logger.Format = v
	}
	if v := os.Getenv("FINCAST_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("FINCAST_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("FINCAST_REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("FINCAST_REDIS_DB"); v != "" {
		c.Cache.Redis.DB = util.ParseIntDefault(v, c.Cache.Redis.DB)
	}
	if v := os.Getenv("FINCAST_WINDOW_LENGTH"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FINCAST_WINDOW_LENGTH: %w", err)
		}
		c.Forecast.WindowLength = w
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	return nil
}
