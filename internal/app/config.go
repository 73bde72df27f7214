package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const defaultSessionTTL = 60 * time.Minute

type Config struct {
	Server struct {
		Bind string `toml:"bind"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Storage struct {
		ProtocolDir   string `toml:"protocol_dir"`
		SubmissionDir string `toml:"submission_dir"`
	} `toml:"storage"`

	Auth struct {
		Mode        string `toml:"mode"`
		ClientID    string `toml:"client_id"`
		SelfRootURL string `toml:"self_root_url"`
		TokenURL    string `toml:"token_url"`
		AuthURL     string `toml:"auth_url"`
		LogoutURL   string `toml:"logout_url"`
		UserinfoURL string `toml:"userinfo_url"`
		RedisURL    string `toml:"redis_url"`
	} `toml:"auth"`

	Encryption struct {
		TokenSecret       string `toml:"token_secret"`
		SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	} `toml:"encryption"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if config.Server.Bind == "" {
		return nil, fmt.Errorf("server bind address is not specified in config, use a value like 127.0.0.1:8080")
	}
	if config.Encryption.TokenSecret == "" {
		return nil, fmt.Errorf("token secret is not specified in config")
	}
	if config.Database.DSN == "" {
		config.Database.DSN = "index.db"
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Storage.ProtocolDir == "" {
		config.Storage.ProtocolDir = "protocols"
	}
	if config.Storage.SubmissionDir == "" {
		config.Storage.SubmissionDir = "submitted_protocols"
	}

	return &config, nil
}

// SessionTTL is the fixed validity window of a session, measured from
// creation, not from last use.
func (c *Config) SessionTTL() time.Duration {
	if c.Encryption.SessionTTLMinutes <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(c.Encryption.SessionTTLMinutes) * time.Minute
}
