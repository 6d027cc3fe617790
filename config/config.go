package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	DriverDynamo = "dynamodb"
	DriverBadger = "badger"
)

// Config holds every runtime setting of the server
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"dynamodb"`
	BadgerPath  string `envconfig:"BADGER_PATH" default:"./data"`

	AWSRegion       string `envconfig:"AWS_REGION" default:"us-east-1"`
	DynamoEndpoint  string `envconfig:"DYNAMO_ENDPOINT"`
	S3Bucket        string `envconfig:"S3_BUCKET_NAME"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	MatchWriteRetries  uint64        `envconfig:"MATCH_WRITE_RETRIES" default:"3"`
	MatchRetryInterval time.Duration `envconfig:"MATCH_RETRY_INTERVAL" default:"100ms"`

	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file, then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverDynamo, DriverBadger:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
