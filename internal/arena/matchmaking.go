package arena

import (
	"context"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/game"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/lobby"

	"github.com/rs/zerolog/log"
)

func (c *Coordinator) resolvePlayer(ctx context.Context, connID string, req identity.Request, mint bool) (game.Player, error) {
	if connID == "" {
		return game.Player{}, ErrInvalidRequest
	}
	id, err := c.resolver.Resolve(ctx, req, mint)
	if err != nil {
		return game.Player{}, err
	}
	return game.Player{
		ConnectionID: connID,
		Identity:     id.PlayerID,
		DisplayName:  id.DisplayName,
		IsGuest:      id.IsGuest,
	}, nil
}

// JoinQueue resolves the caller and queues it, starting a session as soon
// as a second player is waiting.
func (c *Coordinator) JoinQueue(ctx context.Context, connID string, req identity.Request) error {
	p, err := c.resolvePlayer(ctx, connID, req, true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	res, err := c.lobby.Enqueue(p, now)
	if err != nil {
		return err
	}
	metricQueueJoinTotal.Add(1)
	if !res.Matched {
		log.Info().Str("identity", p.Identity).Int("position", res.Position).Msg("queue_joined")
		c.sendConn(connID, QueueUpdate{Type: "queueUpdate", Position: res.Position, Identity: p.Identity})
		return nil
	}
	c.startSessionLocked(res.Entry)
	c.pushQueuePositionsLocked()
	return nil
}

// LeaveQueue drops a waiting entry or hosted room. It is a no-op otherwise.
func (c *Coordinator) LeaveQueue(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lobby.DequeueByConnection(connID) {
		log.Info().Str("conn_id", connID).Msg("queue_left")
		c.pushQueuePositionsLocked()
	}
}

func (c *Coordinator) CreatePrivate(ctx context.Context, connID string, req identity.Request, password string) (string, error) {
	if password == "" {
		return "", ErrInvalidRequest
	}
	p, err := c.resolvePlayer(ctx, connID, req, true)
	if err != nil {
		return "", err
	}
	hash, err := c.hashPassword(password)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	room, err := c.lobby.OpenRoom(p, hash, c.now())
	if err != nil {
		return "", err
	}
	log.Info().Str("room_id", room.ID).Str("identity", p.Identity).Msg("room_created")
	c.sendConn(connID, RoomCreated{Type: "roomCreated", RoomID: room.ID, Identity: p.Identity})
	return room.ID, nil
}

func (c *Coordinator) JoinPrivate(ctx context.Context, connID, roomID string, req identity.Request, password string) error {
	if roomID == "" {
		return ErrInvalidRequest
	}
	p, err := c.resolvePlayer(ctx, connID, req, true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	hash, err := c.lobby.RoomPasswordHash(roomID)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if err := c.checkPassword(hash, password); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, err := c.lobby.ClaimRoom(roomID, p, hash, c.now())
	if err != nil {
		return err
	}
	c.startSessionLocked(entry)
	return nil
}

func (c *Coordinator) StartAIGame(ctx context.Context, connID string, req identity.Request, difficulty string) (string, error) {
	p, err := c.resolvePlayer(ctx, connID, req, true)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, err := c.lobby.CreateAISession(p, ai.NormalizeDifficulty(difficulty), c.now())
	if err != nil {
		return "", err
	}
	c.startSessionLocked(entry)
	return entry.Session.ID, nil
}

// startSessionLocked binds both seats, pushes the opening state and starts
// the clock.
func (c *Coordinator) startSessionLocked(e *lobby.Entry) {
	s := e.Session
	now := c.now()
	for _, p := range s.Players {
		if p.IsAI {
			continue
		}
		c.lobby.Bind(p.ConnectionID, p.Identity, s.ID)
		c.send(p, matchFoundFor(s, p))
	}
	c.broadcast(s, boardUpdateFor(s, now))
	c.startClockLocked(e)

	metricSessionsStarted.Add(1)
	metricSessionsLive.Add(1)
	log.Info().
		Str("session_id", s.ID).
		Str("player_x", s.Players[0].Identity).
		Str("player_o", s.Players[1].Identity).
		Bool("rated", s.IsRated).
		Bool("ai", s.IsAI).
		Msg("session_started")
	if c.observer != nil {
		c.observer.OnSessionStarted(SessionMeta{
			SessionID: s.ID,
			PlayerX:   s.Players[0].Identity,
			PlayerO:   s.Players[1].Identity,
			IsRated:   s.IsRated,
			IsAI:      s.IsAI,
			Private:   s.Private,
			StartedAt: s.CreatedAt,
		})
	}
	c.scheduleAILocked(e)
}

func (c *Coordinator) pushQueuePositionsLocked() {
	for i, q := range c.lobby.Queued() {
		c.sendConn(q.ConnectionID, QueueUpdate{Type: "queueUpdate", Position: i + 1, Identity: q.Identity})
	}
}
