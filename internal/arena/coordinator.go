// Package arena runs live tic-tac-toe sessions: pairing, connection binding,
// disconnect grace, per-player clocks, the automated opponent and teardown.
// Every mutation happens under one mutex.
package arena

import (
	"context"
	"sync"
	"time"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/config"
	"tictac-arena/internal/game/viewmodel"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/lobby"
)

type Coordinator struct {
	cfg      config.GameConfig
	notifier Notifier
	resolver *identity.Resolver
	reporter ResultReporter
	opponent *ai.Opponent
	now      func() time.Time

	// bcrypt runs outside mu; tests swap these to observe the lock.
	hashPassword  func(string) ([]byte, error)
	checkPassword func([]byte, string) error

	mu       sync.Mutex
	lobby    *lobby.Lobby
	observer LifecycleObserver
	reports  sync.WaitGroup
}

type Options struct {
	Notifier Notifier
	Resolver *identity.Resolver
	Reporter ResultReporter
	Opponent *ai.Opponent
	Clock    func() time.Time
}

func NewCoordinator(cfg config.GameConfig, opts Options) *Coordinator {
	if cfg.TurnBudget <= 0 {
		cfg.TurnBudget = 60 * time.Second
	}
	if cfg.GraceCap <= 0 {
		cfg.GraceCap = 10 * time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.FinishedRetention <= 0 {
		cfg.FinishedRetention = 5 * time.Minute
	}
	if cfg.ReportTimeout <= 0 {
		cfg.ReportTimeout = 5 * time.Second
	}
	c := &Coordinator{
		cfg:      cfg,
		notifier: opts.Notifier,
		resolver: opts.Resolver,
		reporter: opts.Reporter,
		opponent: opts.Opponent,
		now:      opts.Clock,
		lobby:    lobby.New(cfg.TurnBudget),

		hashPassword:  lobby.HashRoomPassword,
		checkPassword: lobby.CheckRoomPassword,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.resolver == nil {
		c.resolver = identity.NewResolver(nil)
	}
	if c.opponent == nil {
		c.opponent = ai.NewOpponent(ai.OpponentConfig{ThinkMin: time.Second, ThinkMax: 3 * time.Second}, nil, nil)
	}
	return c
}

// SetNotifier wires the outbound transport after construction.
func (c *Coordinator) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Snapshot returns the live session, or the retained result of a finished one.
func (c *Coordinator) Snapshot(sessionID string) (viewmodel.SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if e := c.lobby.Get(sessionID); e != nil {
		return viewmodel.BuildSessionView(e.Session, "", now), nil
	}
	if f := c.lobby.Finished(sessionID); f != nil {
		return viewmodel.BuildSessionView(f.Session, f.Reason, now), nil
	}
	return viewmodel.SessionView{}, ErrSessionNotFound
}

func (c *Coordinator) Stats() lobby.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobby.Stats()
}

// WaitReports blocks until in-flight result reports finish or ctx ends.
func (c *Coordinator) WaitReports(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.reports.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
