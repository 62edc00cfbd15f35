package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN"`
	UseContainers   bool   `env:"TEST_USE_CONTAINERS" envDefault:"false"`
	TestRedisAddr   string `env:"TEST_REDIS_ADDR"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.TestPostgresDSN == "" && !cfg.UseContainers {
		return cfg, errors.New("TEST_POSTGRES_DSN not set and TEST_USE_CONTAINERS disabled")
	}
	return cfg, nil
}
