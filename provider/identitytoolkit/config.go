package identitytoolkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the Identity Toolkit connection settings. The API key is
// the public client key the mobile app ships with, not a server secret.
type Config struct {
	APIKey    string        `env:"IDENTITY_TOOLKIT_API_KEY"`
	ProjectID string        `env:"IDENTITY_TOOLKIT_PROJECT_ID"`
	Endpoint  string        `env:"IDENTITY_TOOLKIT_ENDPOINT" envDefault:"https://identitytoolkit.googleapis.com/v1"`
	JWKSURL   string        `env:"IDENTITY_TOOLKIT_JWKS_URL"  envDefault:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`
	Timeout   time.Duration `env:"IDENTITY_TOOLKIT_TIMEOUT"   envDefault:"15s"`
}

// LoadConfigFromEnv reads the configuration from the environment.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("identitytoolkit: parse env config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("identitytoolkit: API key is required")
	}
	return nil
}

// issuer is the token issuer for the configured project.
func (c Config) issuer() string {
	return "https://securetoken.google.com/" + c.ProjectID
}
