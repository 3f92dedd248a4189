package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
)

const envPrefix = "cart"

type config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"https://backend-lzb7.onrender.com"`
	Token          string        `envconfig:"TOKEN"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	TokenKey       string        `envconfig:"TOKEN_KEY" default:"cart:session:token"`
	KafkaAddr      string        `envconfig:"KAFKA_ADDR"`
	EventsTopic    string        `envconfig:"EVENTS_TOPIC" default:"cart.events"`
	OTLPEndpoint   string        `envconfig:"OTLP_ENDPOINT"`
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"0s"`
	PromoToken     string        `envconfig:"PROMO_TOKEN" default:"DISCOUNT20"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`
}

// loadConfig reads CART_* variables; flags set on the command line win.
func loadConfig(c *cli.Context) (config, error) {
	var cfg config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return config{}, err
	}

	if c.IsSet("api") {
		cfg.APIBaseURL = c.String("api")
	}
	if c.IsSet("token") {
		cfg.Token = c.String("token")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("addr") {
		cfg.HTTPAddr = c.String("addr")
	}
	return cfg, nil
}
