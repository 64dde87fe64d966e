package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"securevote"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	// PostgresDSN selects the primary store. When empty the process falls
	// back to the embedded sqlite file at SQLitePath.
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"securevote.db"`

	JWTSecret    string   `envconfig:"JWT_SECRET" default:"securevote-dev-secret"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	SeedSampleData bool `envconfig:"SEED_SAMPLE_DATA" default:"false"`

	OutboxRelayIntervalSeconds int `envconfig:"OUTBOX_RELAY_INTERVAL_SECONDS" default:"5"`
}

func Load() (Config, error) {
	// Local .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.ServiceName = strings.TrimSpace(cfg.ServiceName)
	cfg.HTTPPort = strings.TrimSpace(cfg.HTTPPort)
	return cfg, nil
}
