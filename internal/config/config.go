package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Port         int           `yaml:"port"`
	URL          string        `yaml:"url"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	JWT          struct {
		Secret          string `yaml:"secret"`
		SessionTTLHours int    `yaml:"sessionTTLHours"`
		ResetTTLMinutes int    `yaml:"resetTTLMinutes"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type CollectionsCfg struct {
	Users    string `yaml:"users"`
	Contacts string `yaml:"contacts"`
}

type AWSCfg struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type SecurityCfg struct {
	PasswordHashCost int `yaml:"passwordHashCost"`
}

type Config struct {
	App         AppCfg         `yaml:"app"`
	Mongo       MongoCfg       `yaml:"mongo"`
	Collections CollectionsCfg `yaml:"collections"`
	AWS         AWSCfg         `yaml:"aws"`
	Brevo       BrevoCfg       `yaml:"brevo"`
	Security    SecurityCfg    `yaml:"security"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.App.JWT.SessionTTLHours) * time.Hour
}

func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.App.JWT.ResetTTLMinutes) * time.Minute
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("APP_URL", func(v string) { cfg.App.URL = v })
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("JWT_SESSION_TTL_HOURS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.SessionTTLHours = n
		}
	})
	override("JWT_RESET_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.ResetTTLMinutes = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("AWS_REGION", func(v string) { cfg.AWS.Region = v })
	override("AWS_BUCKET", func(v string) { cfg.AWS.Bucket = v })
	override("AWS_ENDPOINT", func(v string) { cfg.AWS.Endpoint = v })
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("PASSWORD_HASH_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.PasswordHashCost = n
		}
	})

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.App.JWT.SessionTTLHours == 0 {
		cfg.App.JWT.SessionTTLHours = 24
	}
	if cfg.App.JWT.ResetTTLMinutes == 0 {
		cfg.App.JWT.ResetTTLMinutes = 60
	}
	if cfg.Collections.Users == "" {
		cfg.Collections.Users = "users"
	}
	if cfg.Collections.Contacts == "" {
		cfg.Collections.Contacts = "contacts"
	}

	return cfg, nil
}
