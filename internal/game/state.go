package game

import "time"

type Status string

const (
	StatusPlaying   Status = "playing"
	StatusWon       Status = "won"
	StatusDraw      Status = "draw"
	StatusAbandoned Status = "abandoned"
)

func (s Status) Terminal() bool {
	return s != StatusPlaying
}

// Player is a seat in a session. Symbol is fixed when the session is created.
type Player struct {
	ConnectionID   string
	Identity       string
	DisplayName    string
	IsGuest        bool
	IsAI           bool
	Symbol         Mark
	JoinedAt       time.Time
	Disconnected   bool
	DisconnectedAt time.Time
}

type Session struct {
	ID             string
	Players        [2]*Player
	Board          Board
	Turn           string
	Status         Status
	Winner         string
	Timers         map[string]int64
	TurnStartedAt  time.Time
	ClockRunning   bool
	IsRated        bool
	IsAI           bool
	Private        bool
	Difficulty     string
	CreatedAt      time.Time
	LastActivityAt time.Time
	Moves          int
}

// NewSession seats x as X (moving first) and o as O, with both clocks at
// budget and X's clock running.
func NewSession(id string, x, o Player, budget time.Duration, now time.Time) *Session {
	x.Symbol = X
	o.Symbol = O
	s := &Session{
		ID:             id,
		Players:        [2]*Player{&x, &o},
		Status:         StatusPlaying,
		Timers:         map[string]int64{x.Identity: budget.Milliseconds(), o.Identity: budget.Milliseconds()},
		IsRated:        !x.IsGuest && !o.IsGuest,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	s.StartTurn(x.Identity, now)
	return s
}

func (s *Session) Player(identity string) *Player {
	for _, p := range s.Players {
		if p != nil && p.Identity == identity {
			return p
		}
	}
	return nil
}

func (s *Session) Opponent(identity string) *Player {
	for _, p := range s.Players {
		if p != nil && p.Identity != identity {
			return p
		}
	}
	return nil
}

func (s *Session) PlayerBySymbol(m Mark) *Player {
	for _, p := range s.Players {
		if p != nil && p.Symbol == m {
			return p
		}
	}
	return nil
}

func (s *Session) HasGuest() bool {
	for _, p := range s.Players {
		if p != nil && p.IsGuest {
			return true
		}
	}
	return false
}

// WinnerSymbol returns the winner's mark, or Empty for draws and live games.
func (s *Session) WinnerSymbol() Mark {
	if s.Winner == "" {
		return Empty
	}
	if p := s.Player(s.Winner); p != nil {
		return p.Symbol
	}
	return Empty
}

// Resolve moves a live session to its terminal state. An empty winner means
// a draw, unless abandoned is set. It returns false if the session was
// already terminal.
func (s *Session) Resolve(winner string, abandoned bool) bool {
	if s.Status.Terminal() {
		return false
	}
	switch {
	case abandoned:
		s.Status = StatusAbandoned
		s.Winner = ""
	case winner == "":
		s.Status = StatusDraw
		s.Winner = ""
	default:
		s.Status = StatusWon
		s.Winner = winner
	}
	return true
}

func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// Clone returns a deep copy that is safe to read after the session mutates.
func (s *Session) Clone() *Session {
	out := *s
	for i, p := range s.Players {
		if p != nil {
			cp := *p
			out.Players[i] = &cp
		}
	}
	out.Timers = make(map[string]int64, len(s.Timers))
	for k, v := range s.Timers {
		out.Timers[k] = v
	}
	return &out
}
