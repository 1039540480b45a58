// Package config builds the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is passed explicitly to every component that needs settings.
type Config struct {
	AppPort string
	AppEnv  string
	Debug   bool

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret    string
	JWTAlgorithm string
	JWTTTL       time.Duration

	RabbitMQURL      string
	RabbitMQExchange string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "host=127.0.0.1 user=postgres password=postgres dbname=booktank port=5432 sslmode=disable")
	v.SetDefault("JWT_ALG", "HS256")
	v.SetDefault("JWT_EXP", 86400)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "booktank")
}

// FromViper maps an already populated viper instance onto a Config.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:          v.GetString("APP_PORT"),
		AppEnv:           v.GetString("APP_ENV"),
		Debug:            v.GetBool("DEBUG"),
		DatabaseDriver:   v.GetString("DATABASE_DRIVER"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAlgorithm:     v.GetString("JWT_ALG"),
		JWTTTL:           time.Duration(v.GetInt64("JWT_EXP")) * time.Second,
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
	}
}

// Validate rejects settings the process cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("unsupported JWT_ALG %q", c.JWTAlgorithm))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXP must be positive"))
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	return errors.Join(errs...)
}

// EventsEnabled reports whether a broker is configured.
func (c Config) EventsEnabled() bool { return c.RabbitMQURL != "" }
