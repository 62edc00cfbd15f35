package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	RedisURL string `env:"REDIS_URL"`

	NATSURL           string        `env:"NATS_URL"`
	NATSSubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" envDefault:"arena"`
	ResultPushWorkers int           `env:"RESULT_PUSH_WORKERS" envDefault:"2"`
	ResultPushRetries int           `env:"RESULT_PUSH_RETRY_MAX" envDefault:"3"`
	ResultPushBackoff time.Duration `env:"RESULT_PUSH_RETRY_BASE" envDefault:"500ms"`

	AIStrategyURL     string        `env:"AI_STRATEGY_URL"`
	AIStrategyAPIKey  string        `env:"AI_STRATEGY_API_KEY"`
	AIStrategyModel   string        `env:"AI_STRATEGY_MODEL" envDefault:"gpt-4o-mini"`
	AIStrategyTimeout time.Duration `env:"AI_STRATEGY_TIMEOUT" envDefault:"5s"`
	AIThinkMin        time.Duration `env:"AI_THINK_MIN" envDefault:"1s"`
	AIThinkMax        time.Duration `env:"AI_THINK_MAX" envDefault:"3s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
