package game

import "time"

// Remaining is the live time left for identity. Only the running turn-holder's
// clock moves; everyone else reads the stored value.
func (s *Session) Remaining(identity string, now time.Time) int64 {
	stored, ok := s.Timers[identity]
	if !ok {
		return 0
	}
	if !s.ClockRunning || identity != s.Turn {
		return stored
	}
	left := stored - now.Sub(s.TurnStartedAt).Milliseconds()
	if left < 0 {
		return 0
	}
	return left
}

// CommitElapsed charges the running turn to the turn-holder and stops the
// clock. Called once per turn transition; a stopped clock is left unchanged.
func (s *Session) CommitElapsed(now time.Time) int64 {
	if !s.ClockRunning {
		return s.Timers[s.Turn]
	}
	left := s.Remaining(s.Turn, now)
	s.Timers[s.Turn] = left
	s.ClockRunning = false
	s.TurnStartedAt = now
	return left
}

// StartTurn hands the move to identity and starts its clock.
func (s *Session) StartTurn(identity string, now time.Time) {
	s.Turn = identity
	s.TurnStartedAt = now
	s.ClockRunning = true
}
