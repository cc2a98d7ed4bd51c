package config

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	awsclient "github.com/chainvault/chainvault-api/internal/client/aws"
	"github.com/chainvault/chainvault-api/internal/vault"
)

// Config holds all runtime configuration for the service, populated from
// the environment.
type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Stage string `envconfig:"STAGE" default:"dev"`

	// EncryptionSecret protects credentials at rest. When empty it is
	// fetched from Secrets Manager via VAULT_ENCRYPTION_SECRET_ARN.
	EncryptionSecret string `envconfig:"VAULT_ENCRYPTION_SECRET"`

	RateLimit    int `envconfig:"RATE_LIMIT" default:"3"`
	RateWindowMS int `envconfig:"RATE_WINDOW_MS" default:"60000"`

	// DatabaseURL selects the Postgres-backed store when set; the
	// in-memory store is used otherwise.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// SetupEventsQueueURL selects the SQS emitter for wallet setup
	// results when set; results are logged otherwise.
	SetupEventsQueueURL string `envconfig:"SETUP_EVENTS_QUEUE_URL"`

	// APIKeyHash is the bcrypt hash gating write endpoints. Empty
	// disables the API key check.
	APIKeyHash string `envconfig:"API_KEY_HASH"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Load populates a Config from the environment and resolves the
// encryption secret, consulting Secrets Manager when it is not set
// directly.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.EncryptionSecret == "" {
		smClient, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Secrets Manager client: %w", err)
		}
		secret, err := smClient.GetSecretString(ctx, "VAULT_ENCRYPTION_SECRET_ARN", "VAULT_ENCRYPTION_SECRET")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve encryption secret: %w", err)
		}
		cfg.EncryptionSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.EncryptionSecret) < vault.MinSecretLen {
		return fmt.Errorf("VAULT_ENCRYPTION_SECRET must be at least %d characters", vault.MinSecretLen)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindowMS <= 0 {
		return fmt.Errorf("RATE_WINDOW_MS must be positive, got %d", c.RateWindowMS)
	}
	return nil
}

// RateWindow returns the admission window as a duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowMS) * time.Millisecond
}

// IsProduction reports whether the service runs in the prod stage.
func (c *Config) IsProduction() bool {
	return c.Stage == "prod" || c.Stage == "production"
}
