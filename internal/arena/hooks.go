package arena

import (
	"context"
	"time"

	"tictac-arena/internal/rating"
)

type SessionMeta struct {
	SessionID string    `json:"session_id"`
	PlayerX   string    `json:"player_x"`
	PlayerO   string    `json:"player_o"`
	IsRated   bool      `json:"is_rated"`
	IsAI      bool      `json:"is_ai"`
	Private   bool      `json:"private"`
	StartedAt time.Time `json:"started_at"`
}

type SessionResult struct {
	SessionID  string    `json:"session_id"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	Winner     string    `json:"winner"`
	Reason     string    `json:"reason"`
	Board      []string  `json:"board"`
	Moves      int       `json:"moves"`
	IsRated    bool      `json:"is_rated"`
	IsAI       bool      `json:"is_ai"`
	FinishedAt time.Time `json:"finished_at"`
}

// LifecycleObserver hears about session starts and ends. Calls happen under
// the coordinator lock and must not block.
type LifecycleObserver interface {
	OnSessionStarted(meta SessionMeta)
	OnSessionFinished(res SessionResult)
}

// ResultReporter persists a rated result. It runs outside the lock.
type ResultReporter interface {
	Report(ctx context.Context, res rating.GameResult) error
}

func (c *Coordinator) SetLifecycleObserver(obs LifecycleObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = obs
}
