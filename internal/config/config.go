package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to boot safetyboard.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Seed    SeedConfig    `yaml:"seed"`
	CORS    CORSConfig    `yaml:"cors"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	// SubmitDelay holds each new report back before it is stored.
	SubmitDelay    time.Duration `yaml:"submitDelay"`
	MetricsEnabled bool          `yaml:"metricsEnabled"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// SeedConfig points at an optional YAML dataset; empty means the built-in one.
type SeedConfig struct {
	Path string `yaml:"path"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load builds a Config from defaults, an optional YAML file and SAFETYBOARD_*
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SAFETYBOARD_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 10 * time.Second,
			MetricsEnabled:  true,
		},
		Logging: LoggingConfig{Level: "info"},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func applyEnvOverrides(cfg *Config) error {
	cfg.Server.Address = getenv("SAFETYBOARD_HTTP_ADDR", cfg.Server.Address)
	cfg.Logging.Level = getenv("SAFETYBOARD_LOG_LEVEL", cfg.Logging.Level)
	cfg.Seed.Path = getenv("SAFETYBOARD_SEED_PATH", cfg.Seed.Path)

	if v := os.Getenv("SAFETYBOARD_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	if v := os.Getenv("SAFETYBOARD_METRICS_ENABLED"); v != "" {
		cfg.Server.MetricsEnabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("SAFETYBOARD_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SAFETYBOARD_READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{"SAFETYBOARD_WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
		{"SAFETYBOARD_IDLE_TIMEOUT", &cfg.Server.IdleTimeout},
		{"SAFETYBOARD_GRACEFUL_TIMEOUT", &cfg.Server.GracefulTimeout},
		{"SAFETYBOARD_SUBMIT_DELAY", &cfg.Server.SubmitDelay},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}
