package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// Config is the full service configuration, loaded from YAML with
// environment-variable overrides for deployment secrets.
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"database"`
	} `yaml:"database"`

	RabbitMQ struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"rabbitmq"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
	} `yaml:"redis"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	JWT struct {
		SecretKey string `yaml:"secret_key"`
	} `yaml:"jwt"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Dispatch struct {
		SearchRadiusKm float64 `yaml:"search_radius_km"`
		NearbyLimit    int     `yaml:"nearby_limit"`
	} `yaml:"dispatch"`

	Migrations struct {
		Path string `yaml:"path"`
	} `yaml:"migrations"`
}

// LoadFromFile loads config from a YAML file, applies .env/environment
// overrides and defaults, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployment environments override file values,
// mainly for credentials that should not live in the YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = cast.ToInt(v)
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("RABBITMQ_HOST"); v != "" {
		cfg.RabbitMQ.Host = v
	}
	if v := os.Getenv("RABBITMQ_PORT"); v != "" {
		cfg.RabbitMQ.Port = cast.ToInt(v)
	}
	if v := os.Getenv("RABBITMQ_USER"); v != "" {
		cfg.RabbitMQ.User = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		cfg.RabbitMQ.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.HTTP.Port = cast.ToInt(v)
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.JWT.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Dispatch.SearchRadiusKm == 0 {
		cfg.Dispatch.SearchRadiusKm = 5.0
	}
	if cfg.Dispatch.NearbyLimit == 0 {
		cfg.Dispatch.NearbyLimit = 20
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "migrations"
	}
}

func (cfg *Config) validate() error {
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.JWT.SecretKey == "" {
		return errors.New("jwt secret key is required")
	}
	if cfg.Dispatch.SearchRadiusKm < 0 {
		return errors.New("search radius cannot be negative")
	}
	return nil
}
