package arena

import (
	"context"
	"time"

	"tictac-arena/internal/identity"
	"tictac-arena/internal/lobby"

	"github.com/rs/zerolog/log"
)

// Bind attaches connID to the caller's seat in sessionID. It serves both the
// first join and every reconnect. A finished session inside the retention
// window replays its terminal state instead.
func (c *Coordinator) Bind(ctx context.Context, connID, sessionID string, req identity.Request) error {
	if connID == "" || sessionID == "" {
		return ErrInvalidRequest
	}
	id, err := c.resolver.Resolve(ctx, req, false)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	e := c.lobby.Get(sessionID)
	if e == nil {
		f := c.lobby.Finished(sessionID)
		if f == nil {
			return ErrSessionNotFound
		}
		p := f.Session.Player(id.PlayerID)
		if p == nil || p.IsAI {
			return ErrNotAParticipant
		}
		c.sendConn(connID, matchFoundFor(f.Session, p))
		c.sendConn(connID, boardUpdateFor(f.Session, now))
		c.sendConn(connID, gameOverFor(f.Session, f.Reason))
		return nil
	}

	s := e.Session
	p := s.Player(id.PlayerID)
	if p == nil || p.IsAI {
		return ErrNotAParticipant
	}
	if p.ConnectionID != "" && p.ConnectionID != connID {
		c.lobby.Unbind(p.ConnectionID)
	}
	p.ConnectionID = connID
	c.lobby.Bind(connID, p.Identity, s.ID)

	wasDisconnected := p.Disconnected
	p.Disconnected = false
	p.DisconnectedAt = time.Time{}
	e.CancelGrace(p.Identity)

	c.send(p, matchFoundFor(s, p))
	c.send(p, boardUpdateFor(s, now))
	if wasDisconnected {
		metricReconnects.Add(1)
		log.Info().Str("session_id", s.ID).Str("identity", p.Identity).Msg("player_reconnected")
		c.send(s.Opponent(p.Identity), OpponentPresence{Type: "opponentReconnected", SessionID: s.ID})
	}
	return nil
}

// ConnectionLost handles a closed socket: it leaves the queue and arms the
// disconnect grace for any live seat bound to connID.
func (c *Coordinator) ConnectionLost(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lobby.DequeueByConnection(connID) {
		c.pushQueuePositionsLocked()
	}
	b, ok := c.lobby.Unbind(connID)
	if !ok {
		return
	}
	e := c.lobby.Get(b.SessionID)
	if e == nil || e.Closed || e.Session.Status.Terminal() {
		return
	}
	s := e.Session
	p := s.Player(b.Identity)
	if p == nil || p.ConnectionID != connID {
		return
	}
	now := c.now()
	if s.IsAI {
		log.Info().Str("session_id", s.ID).Str("identity", p.Identity).Msg("ai_session_abandoned")
		c.terminateLocked(e, "", true, ReasonAbandoned)
		return
	}

	p.Disconnected = true
	p.DisconnectedAt = now
	c.send(s.Opponent(p.Identity), OpponentPresence{Type: "opponentDisconnected", SessionID: s.ID})
	c.armGraceLocked(e, p.Identity, now)
}

// graceFor is the reconnect window: the cap, or less when the player's own
// clock runs out sooner.
func (c *Coordinator) graceFor(e *lobby.Entry, playerID string, now time.Time) time.Duration {
	grace := c.cfg.GraceCap
	if left := time.Duration(e.Session.Remaining(playerID, now)) * time.Millisecond; left < grace {
		grace = left
	}
	return grace
}

func (c *Coordinator) armGraceLocked(e *lobby.Entry, playerID string, now time.Time) {
	grace := c.graceFor(e, playerID, now)
	e.CancelGrace(playerID)
	seq := e.GraceSeq[playerID]
	sessionID := e.Session.ID
	e.GraceTimers[playerID] = time.AfterFunc(grace, func() {
		c.graceExpired(sessionID, playerID, seq)
	})
	metricGraceArmed.Add(1)
	log.Info().
		Str("session_id", sessionID).
		Str("identity", playerID).
		Int64("grace_ms", grace.Milliseconds()).
		Msg("grace_armed")
}

// graceExpired forfeits a player that never came back. Stale callbacks are
// dropped by the sequence check.
func (c *Coordinator) graceExpired(sessionID, playerID string, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lobby.Get(sessionID)
	if e == nil || e.Closed || e.Session.Status.Terminal() {
		return
	}
	if e.GraceSeq[playerID] != seq {
		return
	}
	p := e.Session.Player(playerID)
	if p == nil || !p.Disconnected {
		return
	}
	delete(e.GraceTimers, playerID)
	metricGraceExpired.Add(1)
	winner := ""
	if opp := e.Session.Opponent(playerID); opp != nil {
		winner = opp.Identity
	}
	log.Info().Str("session_id", sessionID).Str("identity", playerID).Msg("grace_expired")
	c.terminateLocked(e, winner, false, ReasonOpponentDisconnect)
}
