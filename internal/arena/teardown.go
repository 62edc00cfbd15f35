package arena

import (
	"context"
	"time"

	"tictac-arena/internal/game"
	"tictac-arena/internal/lobby"
	"tictac-arena/internal/rating"

	"github.com/rs/zerolog/log"
)

// Terminate ends a live session. An empty winner with ReasonAbandoned
// abandons it; an empty winner otherwise is a draw. It reports whether this
// call performed the teardown.
func (c *Coordinator) Terminate(sessionID, winner, reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lobby.Get(sessionID)
	if e == nil {
		return false
	}
	return c.terminateLocked(e, winner, winner == "" && reason == ReasonAbandoned, reason)
}

// terminateLocked is the only teardown path. entry.Closed makes every call
// after the first a no-op.
func (c *Coordinator) terminateLocked(e *lobby.Entry, winner string, abandoned bool, reason string) bool {
	if e.Closed {
		return false
	}
	e.Closed = true
	now := c.now()
	s := e.Session
	s.Resolve(winner, abandoned)
	s.CommitElapsed(now)
	s.Touch(now)
	c.lobby.Remove(s.ID, reason, now)

	c.broadcast(s, boardUpdateFor(s, now))
	c.broadcast(s, gameOverFor(s, reason))

	metricSessionsFinished.Add(1)
	metricSessionsLive.Add(-1)
	metricFinishedByReason.Add(reason, 1)
	log.Info().
		Str("session_id", s.ID).
		Str("status", string(s.Status)).
		Str("winner", s.Winner).
		Str("reason", reason).
		Int("moves", s.Moves).
		Msg("session_finished")

	res := resultOf(s, reason, now)
	if c.observer != nil {
		c.observer.OnSessionFinished(res)
	}
	if s.IsRated && !s.HasGuest() && c.reporter != nil && s.Status != game.StatusAbandoned {
		c.reportAsync(rating.GameResult{
			SessionID:  s.ID,
			PlayerX:    res.PlayerX,
			PlayerO:    res.PlayerO,
			Winner:     s.Winner,
			FinalBoard: res.Board,
			Reason:     reason,
			Rated:      true,
		})
	}
	return true
}

func (c *Coordinator) reportAsync(res rating.GameResult) {
	c.reports.Add(1)
	go func() {
		defer c.reports.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ReportTimeout)
		defer cancel()
		if err := c.reporter.Report(ctx, res); err != nil {
			metricReportErrors.Add(1)
			log.Error().Err(err).Str("session_id", res.SessionID).Msg("result_report_failed")
		}
	}()
}

func resultOf(s *game.Session, reason string, now time.Time) SessionResult {
	winner := string(s.WinnerSymbol())
	if winner == "" {
		winner = "draw"
	}
	return SessionResult{
		SessionID:  s.ID,
		PlayerX:    s.Players[0].Identity,
		PlayerO:    s.Players[1].Identity,
		Winner:     winner,
		Reason:     reason,
		Board:      s.Board.Strings(),
		Moves:      s.Moves,
		IsRated:    s.IsRated,
		IsAI:       s.IsAI,
		FinishedAt: now,
	}
}
