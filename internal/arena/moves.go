package arena

import (
	"context"

	"tictac-arena/internal/game"
	"tictac-arena/internal/lobby"

	"github.com/rs/zerolog/log"
)

// MakeMove applies a move from the player bound to connID.
func (c *Coordinator) MakeMove(connID, sessionID string, cell int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lobby.Get(sessionID)
	if e == nil {
		metricMoveRejected.Add(1)
		if c.lobby.Finished(sessionID) != nil {
			return game.ErrGameNotActive
		}
		return ErrSessionNotFound
	}
	b, ok := c.lobby.Binding(connID)
	if !ok || b.SessionID != sessionID {
		metricMoveRejected.Add(1)
		return ErrNotAParticipant
	}
	return c.applyMoveLocked(e, b.Identity, cell)
}

// applyMoveLocked is the single path for human and automated moves.
func (c *Coordinator) applyMoveLocked(e *lobby.Entry, playerID string, cell int) error {
	if e.Closed {
		return game.ErrGameNotActive
	}
	s := e.Session
	outcome, err := game.ApplyMove(s, playerID, cell, c.now())
	if err != nil {
		metricMoveRejected.Add(1)
		return err
	}
	metricMoveTotal.Add(1)
	log.Debug().
		Str("session_id", s.ID).
		Str("identity", playerID).
		Int("cell", cell).
		Str("outcome", string(outcome)).
		Msg("move_applied")

	switch outcome {
	case game.OutcomeTimeout:
		c.terminateLocked(e, s.Winner, false, ReasonTimeout)
	case game.OutcomeWon, game.OutcomeDraw:
		c.terminateLocked(e, s.Winner, false, ReasonGameComplete)
	default:
		c.broadcast(s, boardUpdateFor(s, c.now()))
		c.scheduleAILocked(e)
	}
	return nil
}

// scheduleAILocked starts the automated player's turn when it holds the
// move. The move lands only if nothing changed meanwhile.
func (c *Coordinator) scheduleAILocked(e *lobby.Entry) {
	s := e.Session
	if !s.IsAI || e.Closed || e.AIPending || s.Status != game.StatusPlaying {
		return
	}
	bot := s.Player(s.Turn)
	if bot == nil || !bot.IsAI {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.CancelAI = cancel
	e.AIPending = true

	sessionID, botID, gen := s.ID, bot.Identity, s.Moves
	board, mark, difficulty := s.Board, bot.Symbol, s.Difficulty
	go func() {
		defer cancel()
		if !c.opponent.Think(ctx) {
			return
		}
		cell, err := c.opponent.SelectMove(ctx, board, mark, difficulty)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("ai_move_failed")
			return
		}
		c.applyAIMove(sessionID, botID, gen, cell)
	}()
}

// applyAIMove feeds a computed move back in after re-checking that the
// session is live and still at generation gen with the bot on turn.
func (c *Coordinator) applyAIMove(sessionID, botID string, gen, cell int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lobby.Get(sessionID)
	if e == nil || e.Closed {
		metricAIStaleMoves.Add(1)
		return false
	}
	s := e.Session
	if s.Moves != gen || s.Turn != botID || s.Status != game.StatusPlaying {
		metricAIStaleMoves.Add(1)
		return false
	}
	e.AIPending = false
	if e.CancelAI != nil {
		e.CancelAI()
		e.CancelAI = nil
	}
	if err := c.applyMoveLocked(e, botID, cell); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Int("cell", cell).Msg("ai_move_rejected")
		return false
	}
	return true
}
