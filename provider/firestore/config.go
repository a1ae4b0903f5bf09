package firestore

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the Firestore REST connection settings.
type Config struct {
	ProjectID  string        `env:"FIRESTORE_PROJECT_ID"`
	DatabaseID string        `env:"FIRESTORE_DATABASE_ID" envDefault:"(default)"`
	Collection string        `env:"FIRESTORE_COLLECTION"  envDefault:"users"`
	Endpoint   string        `env:"FIRESTORE_ENDPOINT"    envDefault:"https://firestore.googleapis.com/v1"`
	Timeout    time.Duration `env:"FIRESTORE_TIMEOUT"     envDefault:"15s"`
}

// LoadConfigFromEnv reads the configuration from the environment.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("firestore: parse env config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ProjectID) == "" {
		return fmt.Errorf("firestore: project ID is required")
	}
	return nil
}

// documentURL builds the REST resource URL for a user's profile document.
func (c Config) documentURL(userID string) string {
	return fmt.Sprintf("%s/projects/%s/databases/%s/documents/%s/%s",
		c.Endpoint, c.ProjectID, c.DatabaseID, c.Collection, userID)
}
