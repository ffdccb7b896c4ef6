package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"
	EnvPath     = "WORKHUB_CONFIG"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type DigestConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Timezone string        `yaml:"timezone"`
}

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"auth"`
	Email    EmailConfig `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
	Digest  DigestConfig `yaml:"digest"`
	Reports struct {
		FontPath string `yaml:"font_path"`
	} `yaml:"reports"`
}

// Path resolves the config file: explicit flag, then env, then the default.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("digest.timezone: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Auth.AccessTTL <= 0 {
		c.Auth.AccessTTL = 15 * time.Minute
	}
	if c.Digest.Interval <= 0 {
		c.Digest.Interval = time.Hour
	}
}

// Location is the zone used for day boundaries on the server side.
func (c *Config) Location() (*time.Location, error) {
	if c.Digest.Timezone == "" || c.Digest.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Digest.Timezone)
}
