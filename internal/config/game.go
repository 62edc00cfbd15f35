package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// GameConfig holds clock, sweep and rating tunables for the arena.
type GameConfig struct {
	TurnBudget        time.Duration `env:"TURN_BUDGET" envDefault:"60s"`
	GraceCap          time.Duration `env:"DISCONNECT_GRACE_CAP" envDefault:"10s"`
	TickInterval      time.Duration `env:"CLOCK_TICK_INTERVAL" envDefault:"1s"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	MaxIdle           time.Duration `env:"SESSION_MAX_IDLE" envDefault:"5m"`
	FinishedRetention time.Duration `env:"FINISHED_RETENTION" envDefault:"5m"`
	ReportTimeout     time.Duration `env:"REPORT_TIMEOUT" envDefault:"5s"`
	EloK              int           `env:"ELO_K" envDefault:"32"`
	DefaultRating     int           `env:"DEFAULT_RATING" envDefault:"1000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
