package viewmodel

import (
	"time"

	"tictac-arena/internal/game"
)

// SeatView carries Identity only for registered players. A guest identity is
// the credential that rebinds its seat, so it never leaves the process.
type SeatView struct {
	Symbol       string `json:"symbol"`
	Identity     string `json:"identity,omitempty"`
	DisplayName  string `json:"display_name"`
	IsGuest      bool   `json:"is_guest"`
	IsAI         bool   `json:"is_ai"`
	Connected    bool   `json:"connected"`
	RemainingMS  int64  `json:"remaining_ms"`
	IsTurnHolder bool   `json:"is_turn_holder"`
}

// BoardStateView is the full state pushed to players after every mutation
// and on every clock tick. Empty cells are null.
type BoardStateView struct {
	SessionID          string           `json:"session_id"`
	Board              [9]*string       `json:"board"`
	Turn               string           `json:"turn"`
	Timers             map[string]int64 `json:"timers"`
	CurrentPlayerTimer int64            `json:"current_player_timer"`
	TurnStartedAt      int64            `json:"turn_started_at"`
	Status             string           `json:"status"`
}

// SessionView is the inspection shape served over HTTP and MCP.
type SessionView struct {
	SessionID      string         `json:"session_id"`
	Status         string         `json:"status"`
	Winner         string         `json:"winner,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	IsRated        bool           `json:"is_rated"`
	IsAI           bool           `json:"is_ai"`
	Private        bool           `json:"private"`
	Moves          int            `json:"moves"`
	Seats          []SeatView     `json:"seats"`
	State          BoardStateView `json:"state"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

func BuildBoardState(s *game.Session, now time.Time) BoardStateView {
	var cells [9]*string
	for i, m := range s.Board {
		if m == game.Empty {
			continue
		}
		v := string(m)
		cells[i] = &v
	}

	timers := make(map[string]int64, 2)
	var turnSymbol string
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		timers[string(p.Symbol)] = s.Remaining(p.Identity, now)
		if p.Identity == s.Turn {
			turnSymbol = string(p.Symbol)
		}
	}

	var current int64
	if s.Turn != "" {
		current = s.Remaining(s.Turn, now)
	}
	var startedAt int64
	if !s.TurnStartedAt.IsZero() {
		startedAt = s.TurnStartedAt.UnixMilli()
	}
	return BoardStateView{
		SessionID:          s.ID,
		Board:              cells,
		Turn:               turnSymbol,
		Timers:             timers,
		CurrentPlayerTimer: current,
		TurnStartedAt:      startedAt,
		Status:             string(s.Status),
	}
}

func BuildSessionView(s *game.Session, reason string, now time.Time) SessionView {
	seats := make([]SeatView, 0, len(s.Players))
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		seat := SeatView{
			Symbol:       string(p.Symbol),
			DisplayName:  p.DisplayName,
			IsGuest:      p.IsGuest,
			IsAI:         p.IsAI,
			Connected:    p.IsAI || (!p.Disconnected && p.ConnectionID != ""),
			RemainingMS:  s.Remaining(p.Identity, now),
			IsTurnHolder: s.Status == game.StatusPlaying && p.Identity == s.Turn,
		}
		if !p.IsGuest && !p.IsAI {
			seat.Identity = p.Identity
		}
		seats = append(seats, seat)
	}
	return SessionView{
		SessionID:      s.ID,
		Status:         string(s.Status),
		Winner:         string(s.WinnerSymbol()),
		Reason:         reason,
		IsRated:        s.IsRated,
		IsAI:           s.IsAI,
		Private:        s.Private,
		Moves:          s.Moves,
		Seats:          seats,
		State:          BuildBoardState(s, now),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}
