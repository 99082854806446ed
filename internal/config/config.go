package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	ServerAddress   string        `envconfig:"SERVER_ADDRESS" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// DB
	DBDriver     string `envconfig:"DB_DRIVER" default:"pgx"`
	PostgresConn string `envconfig:"POSTGRES_CONN" required:"true"`

	// JWT
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer          string `envconfig:"JWT_ISSUER" default:"blog-api"`
	JWTAudience        string `envconfig:"JWT_AUDIENCE" default:"blog-client"`
	JWTLifetimeMinutes int    `envconfig:"JWT_LIFETIME_MINUTES" default:"60"`
	BcryptCost         int    `envconfig:"BCRYPT_COST" default:"12"`

	TokenSweepInterval time.Duration `envconfig:"TOKEN_SWEEP_INTERVAL" default:"30m"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// JWTLifetime is the configured token lifetime.
func (a App) JWTLifetime() time.Duration {
	return time.Duration(a.JWTLifetimeMinutes) * time.Minute
}

// Load reads an optional .env file and then the process environment.
func Load() (App, error) {
	_ = godotenv.Load(".env")
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
