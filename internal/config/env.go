package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds settings read from the environment.
type EnvConfig struct {
	APIKey      string `env:"GEMINI_API_KEY"`
	ScanModel   string `env:"HACKBLITZ_SCAN_MODEL"`
	CoachModel  string `env:"HACKBLITZ_COACH_MODEL"`
	DBPath      string `env:"HACKBLITZ_DB_PATH"`
	SSHHost     string `env:"HACKBLITZ_SSH_HOST"     envDefault:"::"`
	SSHPort     string `env:"HACKBLITZ_SSH_PORT"     envDefault:"2222"`
	HostKeyPath string `env:"HACKBLITZ_SSH_HOST_KEY"`
}

// LoadEnv parses the environment into an EnvConfig.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = DefaultHostKeyPath()
	}
	return cfg, nil
}
