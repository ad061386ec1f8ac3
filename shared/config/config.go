package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage holds the storage service's configuration.
type Storage struct {
	Port      int    `env:"API_PORT" envDefault:"4000"`
	DBPath    string `env:"SQLITE_DB_PATH" envDefault:"./quill.db"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Gateway holds the presentation gateway's configuration.
type Gateway struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	APIBaseURL      string        `env:"API_BASE_URL" envDefault:"http://localhost:4000"`
	StagingDir      string        `env:"STAGING_DIR" envDefault:"./staging"`
	PublicDir       string        `env:"PUBLIC_DIR" envDefault:"./public"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load populates cfg from the environment. A .env file in the working
// directory is read first when present, matching how the services are run
// in development.
func Load(cfg any) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}
