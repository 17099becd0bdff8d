package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_NOTIFICATION_LIMIT overrides the per-user notification cap
	NotificationLimit int `envconfig:"E2E_NOTIFICATION_LIMIT" default:"50"`
	// E2E_SESSION_SECRET signs the scenario's session tokens
	SessionSecret string `envconfig:"E2E_SESSION_SECRET" default:"e2e-secret"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
