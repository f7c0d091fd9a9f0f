package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	Elastic ElasticConfig `yaml:"elastic"`
	Caches  []CacheSpec   `yaml:"caches"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RedisConfig is only dialled when at least one cache uses the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ElasticConfig enables the Elasticsearch content repository when URL is set.
// Without it content lives in memory.
type ElasticConfig struct {
	URL   string `yaml:"url"`
	Index string `yaml:"index"`
	Sniff bool   `yaml:"sniff"`
}

type CacheSpec struct {
	Name            string        `yaml:"name"`
	Backend         string        `yaml:"backend"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Elastic: ElasticConfig{
			Index: "content",
		},
		Caches: []CacheSpec{
			{Name: "content", Backend: BackendMemory, TTL: 5 * time.Minute, CleanupInterval: 10 * time.Minute},
		},
	}
}

// Load reads defaults, then the YAML file at path (if any), then the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BEDROCK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("BEDROCK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("ELASTIC_URL"); v != "" {
		c.Elastic.URL = v
	}
	if v := os.Getenv("ELASTIC_INDEX"); v != "" {
		c.Elastic.Index = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Caches))
	for i, spec := range c.Caches {
		if spec.Name == "" {
			errs = append(errs, fmt.Errorf("caches[%d]: name is required", i))
			continue
		}
		if seen[spec.Name] {
			errs = append(errs, fmt.Errorf("caches[%d]: duplicate cache name %q", i, spec.Name))
		}
		seen[spec.Name] = true

		switch spec.Backend {
		case "", BackendMemory, BackendRedis:
		default:
			errs = append(errs, fmt.Errorf("caches[%d]: unknown backend %q", i, spec.Backend))
		}
		if spec.TTL < 0 {
			errs = append(errs, fmt.Errorf("caches[%d]: ttl must not be negative", i))
		}
	}

	if c.Elastic.URL != "" && c.Elastic.Index == "" {
		errs = append(errs, errors.New("elastic: index is required when url is set"))
	}

	return errors.Join(errs...)
}

// UsesRedis reports whether any configured cache needs a Redis connection.
func (c *Config) UsesRedis() bool {
	for _, spec := range c.Caches {
		if spec.Backend == BackendRedis {
			return true
		}
	}
	return false
}
