package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Env            string
	Port           string
	CORSOrigin     string
	RequestTimeout time.Duration

	DBDriver      string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	JWTSecret     string
	JWTExpiry     time.Duration
	BcryptCost    int
	ResetTokenTTL time.Duration
	FrontendURL   string

	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string

	RabbitMQURL string

	LogLevel  string
	LogFormat string
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the environment, after loading envFile (if it
// exists) with godotenv. Variables already set in the environment win.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":5500")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "travelbook.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "travelBooking")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RESET_TOKEN_TTL", "15m")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM_EMAIL", "no-reply@travelbook.local")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:            v.GetString("APP_ENV"),
		Port:           v.GetString("APP_PORT"),
		CORSOrigin:     v.GetString("CORS_ORIGIN"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiry:      v.GetDuration("JWT_EXPIRY"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		ResetTokenTTL:  v.GetDuration("RESET_TOKEN_TTL"),
		FrontendURL:    v.GetString("FRONTEND_URL"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUsername:   v.GetString("SMTP_USERNAME"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		SMTPFromEmail:  v.GetString("SMTP_FROM_EMAIL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		if c.Env != "development" && c.Env != "test" {
			return errors.New("JWT_SECRET is required")
		}
		c.JWTSecret = "dev-only-secret"
	}
	if c.SMTPHost == "" && c.Env != "development" && c.Env != "test" {
		return errors.New("SMTP_HOST is required outside development")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", c.ResetTokenTTL)
	}
	return nil
}
