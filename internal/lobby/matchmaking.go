package lobby

import (
	"time"

	"tictac-arena/internal/game"
)

// CreateSession pairs p1 (X, moves first) with p2 (O) and registers the
// session. Rated iff neither player is a guest.
func (l *Lobby) CreateSession(p1, p2 game.Player, now time.Time) *Entry {
	s := game.NewSession(l.newID(), p1, p2, l.turnBudget, now)
	return l.register(s)
}

// CreateAISession seats the human as X against an automated O. AI games
// are never rated.
func (l *Lobby) CreateAISession(human game.Player, difficulty string, now time.Time) (*Entry, error) {
	if human.Identity == "" || human.ConnectionID == "" {
		return nil, ErrInvalidPlayer
	}
	if l.identityBusy(human.Identity) || l.QueuePosition(human.Identity) > 0 {
		return nil, ErrAlreadyInSession
	}
	if human.JoinedAt.IsZero() {
		human.JoinedAt = now
	}
	id := l.newID()
	bot := game.Player{
		Identity:    "ai:" + id,
		DisplayName: "Computer (" + difficulty + ")",
		IsGuest:     true,
		IsAI:        true,
		JoinedAt:    now,
	}
	s := game.NewSession(id, human, bot, l.turnBudget, now)
	s.IsAI = true
	s.IsRated = false
	s.Difficulty = difficulty
	return l.register(s), nil
}
