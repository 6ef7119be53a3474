package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	DataDir       string
	CustomersFile string
	CampaignsFile string

	SenderMode string

	TracingEnabled bool
	OTLPEndpoint   string
}

const (
	SenderLog  = "log"
	SenderNoop = "noop"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:        getenv("APP_SERVICE", "kampa"),
		AppVersion:     getenv("APP_VERSION", "0.1.0"),
		Environment:    getenv("ENVIRONMENT", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		DataDir:        getenv("DATA_DIR", "data"),
		CustomersFile:  getenv("CUSTOMERS_FILE", "customers.json"),
		CampaignsFile:  getenv("CAMPAIGNS_FILE", "campaigns.json"),
		SenderMode:     normalizeSenderMode(getenv("SENDER_MODE", SenderLog)),
		TracingEnabled: getenvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getenv("OTLP_ENDPOINT", "localhost:4317"),
	}
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewAnalyticsParamsHolder),
)

func normalizeSenderMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SenderNoop:
		return SenderNoop
	default:
		return SenderLog
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
