package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	// PaystackSecretKey authenticates outbound API calls and is also the
	// key Paystack signs webhook payloads with. Never logged.
	PaystackSecretKey string `env:"PAYSTACK_SECRET_KEY,required"`
	PaystackBaseURL   string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`

	// JWTSecret verifies bearer tokens issued by the identity provider.
	JWTSecret string `env:"JWT_SECRET,required"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	RedisAddr string `env:"REDIS_ADDR"`

	WebhookHandlerTimeoutS int `env:"WEBHOOK_HANDLER_TIMEOUT_S" envDefault:"30"`
	WebhookStaleAfterS     int `env:"WEBHOOK_STALE_AFTER_S" envDefault:"300"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) WebhookHandlerTimeout() time.Duration {
	return time.Duration(c.WebhookHandlerTimeoutS) * time.Second
}

func (c *Config) WebhookStaleAfter() time.Duration {
	return time.Duration(c.WebhookStaleAfterS) * time.Second
}
