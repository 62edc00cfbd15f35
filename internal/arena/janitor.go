package arena

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartJanitor abandons idle sessions and prunes retained results and stale
// rooms until ctx is done.
func (c *Coordinator) StartJanitor(ctx context.Context) {
	interval := c.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *Coordinator) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	abandoned := 0
	for _, e := range c.lobby.Idle(now, c.cfg.MaxIdle) {
		if c.terminateLocked(e, "", true, ReasonAbandoned) {
			abandoned++
		}
	}
	pruned := c.lobby.PruneFinished(now, c.cfg.FinishedRetention)
	rooms := 0
	if c.cfg.MaxIdle > 0 {
		rooms = c.lobby.PruneRooms(now, c.cfg.MaxIdle)
	}
	if abandoned+pruned+rooms > 0 {
		log.Info().
			Int("abandoned", abandoned).
			Int("pruned_results", pruned).
			Int("pruned_rooms", rooms).
			Msg("janitor_sweep")
	}
}
