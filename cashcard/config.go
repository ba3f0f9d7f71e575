package cashcard

import (
	"os"

	"github.com/Laieb786/tutorial-spring-boot/internal/auth"
)

// Config is a configuration for the cash card application
type Config struct {
	HTTPAddr string
	// RepoBackend selects the record store: "mem" or "pg".
	RepoBackend string
	// DatabaseDSN is required for the pg backend.
	DatabaseDSN string
	// SeedDemoData loads the demo fixtures on startup.
	SeedDemoData bool
	// Users seed the credential store.
	Users []auth.Credential
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:    "localhost:8080",
		RepoBackend: "mem",
		Users: []auth.Credential{
			{Username: "sarah1", Password: "abc123", OwnerID: "sarah1"},
			{Username: "kumar2", Password: "xyz789", OwnerID: "kumar2"},
		},
	}
}

// FromEnv builds a config from the environment on top of the defaults.
func FromEnv() *Config {
	config := DefaultConfig()

	config.HTTPAddr = getenv("HTTP_ADDR", config.HTTPAddr)
	config.RepoBackend = getenv("REPO_BACKEND", config.RepoBackend)
	config.DatabaseDSN = getenv("DB_DSN", config.DatabaseDSN)
	config.SeedDemoData = getenv("SEED_DEMO_DATA", "false") == "true"

	return config
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
