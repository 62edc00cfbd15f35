package game

import (
	"errors"
	"time"
)

var (
	ErrGameNotActive = errors.New("game_not_active")
	ErrNotYourTurn   = errors.New("not_your_turn")
	ErrInvalidCell   = errors.New("invalid_cell")
)

type Outcome string

const (
	OutcomeContinuing Outcome = "continuing"
	OutcomeWon        Outcome = "won"
	OutcomeDraw       Outcome = "draw"
	OutcomeTimeout    Outcome = "timeout"
)

// ApplyMove validates and applies a move by identity. A mover whose clock
// ran out loses on time instead of placing the mark. No I/O happens here.
func ApplyMove(s *Session, identity string, cell int, now time.Time) (Outcome, error) {
	if s.Status != StatusPlaying {
		return "", ErrGameNotActive
	}
	if identity != s.Turn {
		return "", ErrNotYourTurn
	}
	mover := s.Player(identity)
	if mover == nil {
		return "", ErrNotYourTurn
	}
	next, err := s.Board.ApplyMark(cell, mover.Symbol)
	if err != nil {
		return "", err
	}

	if left := s.CommitElapsed(now); left <= 0 {
		if opp := s.Opponent(identity); opp != nil {
			s.Resolve(opp.Identity, false)
		}
		return OutcomeTimeout, nil
	}

	s.Board = next
	s.Moves++
	s.Touch(now)
	if DetectWinner(s.Board) == mover.Symbol {
		s.Resolve(identity, false)
		return OutcomeWon, nil
	}
	if IsDraw(s.Board) {
		s.Resolve("", false)
		return OutcomeDraw, nil
	}
	s.StartTurn(s.Opponent(identity).Identity, now)
	return OutcomeContinuing, nil
}

// ExpireTurn checks the turn-holder's clock and, when it has run out,
// forfeits the session to the opponent. It reports whether it did.
func ExpireTurn(s *Session, now time.Time) bool {
	if s.Status != StatusPlaying || !s.ClockRunning {
		return false
	}
	if s.Remaining(s.Turn, now) > 0 {
		return false
	}
	loser := s.Turn
	s.CommitElapsed(now)
	if opp := s.Opponent(loser); opp != nil {
		s.Resolve(opp.Identity, false)
	}
	return true
}
