package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Completion provider settings. The API key comes from LLM_API_KEY
	// directly, or from Secret Manager when LLM_API_KEY_SECRET_NAME is set.
	LLMBaseURL      string `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1"`
	LLMAPIKey       string `envconfig:"LLM_API_KEY"`
	LLMAPIKeySecret string `envconfig:"LLM_API_KEY_SECRET_NAME"`
	GCPProjectID    string `envconfig:"GCP_PROJECT_ID"`
	AnalysisModel   string `envconfig:"ANALYSIS_MODEL" default:"gpt-4o-mini"`
	GenerationModel string `envconfig:"GENERATION_MODEL" default:"gpt-4o"`
	LLMTimeoutSec   int    `envconfig:"LLM_TIMEOUT_SEC" default:"60"`

	// Credit sweeper settings
	SweepSchedule string `envconfig:"SWEEP_SCHEDULE" default:"0 3 * * *"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the connection string adjusted for the environment.
//
// In a development environment, we want to ensure that SSL is disabled for
// local testing. In production, the connection string should be provided
// with the correct SSL settings — but deployments behind a transaction
// pooler like pgbouncer must use the simple query protocol to avoid issues
// with server-side prepared statements.
func (c *Config) DSN() string {
	dsn := c.DBConnectionString
	if c.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	if c.Environment != "development" && !strings.Contains(dsn, "prefer_simple_protocol") {
		separator := "&"
		if !strings.Contains(dsn, "?") {
			separator = "?"
		}
		dsn += separator + "prefer_simple_protocol=true"
	}
	return dsn
}
