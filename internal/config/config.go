package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Vignettes"`
		Port int    `envconfig:"PORT" default:"8000"`
	}

	Gateway struct {
		URL     string        `envconfig:"API_URL" default:"http://localhost:8000/api"`
		Token   string        `envconfig:"GATEWAY_TOKEN"`
		Timeout time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"15s"`
		// Mode is "http" to talk to API_URL or "fixture" for the in-memory demo data.
		Mode string `envconfig:"GATEWAY_MODE" default:"http"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vignettes"`
	}

	Sandbox struct {
		Store          string   `envconfig:"SANDBOX_STORE" default:"memory"`
		SeedCSV        string   `envconfig:"SANDBOX_SEED_CSV"`
		AllowedOrigins []string `envconfig:"SANDBOX_ALLOWED_ORIGINS" default:"http://localhost:*"`
	}

	Session struct {
		Token  string `envconfig:"SESSION_TOKEN"`
		Secret string `envconfig:"SESSION_SECRET"`
	}

	Wizard struct {
		ConfirmDelay time.Duration `envconfig:"WIZARD_CONFIRM_DELAY" default:"1500ms"`
		Currency     string        `envconfig:"WIZARD_CURRENCY" default:"USD"`
		ReceiptDir   string        `envconfig:"WIZARD_RECEIPT_DIR" default:"recus"`
	}

	Assistant struct {
		APIKey string `envconfig:"GEMINI_API_KEY"`
		Model  string `envconfig:"ASSISTANT_MODEL" default:"gemini-2.5-flash"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate rejects unknown modes early, before any connection is attempted.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Gateway.Mode) {
	case "http", "fixture":
	default:
		return fmt.Errorf("invalid GATEWAY_MODE %q: expected http or fixture", c.Gateway.Mode)
	}

	switch strings.ToLower(c.Sandbox.Store) {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid SANDBOX_STORE %q: expected memory or postgres", c.Sandbox.Store)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
