package arena

import (
	"sync"
	"time"

	"tictac-arena/internal/game"
	"tictac-arena/internal/lobby"
)

func (c *Coordinator) startClockLocked(e *lobby.Entry) {
	stop := make(chan struct{})
	var once sync.Once
	e.StopClock = func() { once.Do(func() { close(stop) }) }
	sessionID := e.Session.ID
	interval := c.cfg.TickInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !c.tick(sessionID) {
					return
				}
			}
		}
	}()
}

// tick checks the running clock of one session and pushes a boardUpdate
// while it is still live. It reports whether the session is still live.
func (c *Coordinator) tick(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lobby.Get(sessionID)
	if e == nil || e.Closed {
		return false
	}
	now := c.now()
	holder := e.Session.Player(e.Session.Turn)
	if game.ExpireTurn(e.Session, now) {
		// A flag that falls while its owner is away is a disconnect loss.
		reason := ReasonTimeout
		if holder != nil && holder.Disconnected {
			reason = ReasonOpponentDisconnect
		}
		c.terminateLocked(e, e.Session.Winner, false, reason)
		return false
	}
	if e.Session.Status.Terminal() {
		return false
	}
	c.broadcast(e.Session, boardUpdateFor(e.Session, now))
	return true
}
