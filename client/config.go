package client

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the backend connection settings for the API client.
type Config struct {
	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	LoginPath      string        `envconfig:"AUTH_LOGIN_PATH" default:"/auth/login"`
	RefreshPath    string        `envconfig:"AUTH_REFRESH_PATH" default:"/auth/refresh"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// ConfigFromEnv reads configuration from environment variables.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("backend URL must be provided")
	}
	return &cfg, nil
}
