// Package config loads server configuration from an optional YAML file with
// environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "10s"-style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// DatabaseURL selects the Postgres dataset store; empty means in-memory.
	DatabaseURL string `yaml:"database_url"`
	// RedisURL enables the dataset cache and the Redis progress broker.
	RedisURL string `yaml:"redis_url"`
	// DatasetDir seeds the in-memory store from Solomon files on disk.
	DatasetDir string `yaml:"dataset_dir"`
	// CacheTTL bounds how long parsed datasets stay in Redis.
	CacheTTL Duration `yaml:"cache_ttl"`

	Defaults  Defaults  `yaml:"defaults"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

// Defaults fill optimize request fields the client leaves unset.
type Defaults struct {
	TimePrecisionScaler float64  `yaml:"time_precision_scaler"`
	TimeLimit           Duration `yaml:"time_limit"`
	Method              string   `yaml:"method"`
}

// RateLimit throttles POST /v1/optimize across all clients.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		CacheTTL: Duration(10 * time.Minute),
		Defaults: Defaults{
			TimePrecisionScaler: 100,
			TimeLimit:           Duration(10 * time.Second),
			Method:              "heuristic",
		},
		RateLimit: RateLimit{RPS: 5, Burst: 10},
	}
}

// Load builds the configuration: defaults, then the YAML file at path when
// given, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("DATASET_DIR"); v != "" {
		c.DatasetDir = v
	}
	if v := os.Getenv("DEFAULT_METHOD"); v != "" {
		c.Defaults.Method = v
	}
	if v := os.Getenv("DEFAULT_TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEFAULT_TIME_LIMIT: %w", err)
		}
		c.Defaults.TimeLimit = Duration(d)
	}
	if v := os.Getenv("DEFAULT_TIME_PRECISION_SCALER"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DEFAULT_TIME_PRECISION_SCALER: %w", err)
		}
		c.Defaults.TimePrecisionScaler = f
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimit.RPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimit.Burst = n
	}
	return nil
}
