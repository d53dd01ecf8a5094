package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"5"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"10"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	}
	Database struct {
		Host       string `env:"DB_HOST" envDefault:"localhost"`
		User       string `env:"DB_USER" envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD,required"`
		Name       string `env:"DB_NAME" envDefault:"waqtech_leave"`
		Port       string `env:"DB_PORT" envDefault:"5432"`
		SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
		MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
	}
	Redis struct {
		Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	}
	Kafka struct {
		Broker  string `env:"KAFKA_BROKER" envDefault:"localhost:9092"`
		GroupID string `env:"KAFKA_GROUP_ID" envDefault:"go-leave-review-audit"`
	}
	JWT struct {
		Secret            string `env:"JWT_SECRET,required"`
		AccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
		RefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"10080"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// return hanya error pertama agar log lebih jelas
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
