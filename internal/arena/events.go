package arena

import (
	"time"

	"tictac-arena/internal/game"
	"tictac-arena/internal/game/viewmodel"
)

const (
	ReasonGameComplete       = "game_complete"
	ReasonTimeout            = "timeout"
	ReasonOpponentDisconnect = "opponent_disconnect"
	ReasonAbandoned          = "abandoned"
)

// Notifier delivers an outbound message to one connection. Send must not
// block; it is called with the coordinator lock held.
type Notifier interface {
	Send(connID string, msg any)
}

type QueueUpdate struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Identity string `json:"identity"`
}

type RoomCreated struct {
	Type     string `json:"type"`
	RoomID   string `json:"room_id"`
	Identity string `json:"identity"`
}

type MatchFound struct {
	Type         string `json:"type"`
	SessionID    string `json:"session_id"`
	Symbol       string `json:"symbol"`
	Identity     string `json:"identity"`
	OpponentName string `json:"opponent_name"`
	IsRated      bool   `json:"is_rated"`
	IsAI         bool   `json:"is_ai"`
}

type BoardUpdate struct {
	Type string `json:"type"`
	viewmodel.BoardStateView
}

type GameOver struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Winner    string `json:"winner"`
	Reason    string `json:"reason"`
}

type OpponentPresence struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type ErrorMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func NewErrorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: "errorMessage", Reason: ErrorCode(err)}
}

func matchFoundFor(s *game.Session, p *game.Player) MatchFound {
	msg := MatchFound{
		Type:      "matchFound",
		SessionID: s.ID,
		Symbol:    string(p.Symbol),
		Identity:  p.Identity,
		IsRated:   s.IsRated,
		IsAI:      s.IsAI,
	}
	if opp := s.Opponent(p.Identity); opp != nil {
		msg.OpponentName = opp.DisplayName
	}
	return msg
}

func boardUpdateFor(s *game.Session, now time.Time) BoardUpdate {
	return BoardUpdate{Type: "boardUpdate", BoardStateView: viewmodel.BuildBoardState(s, now)}
}

func gameOverFor(s *game.Session, reason string) GameOver {
	winner := string(s.WinnerSymbol())
	if winner == "" {
		winner = "draw"
	}
	return GameOver{Type: "gameOver", SessionID: s.ID, Winner: winner, Reason: reason}
}

func (c *Coordinator) sendConn(connID string, msg any) {
	if c.notifier == nil || connID == "" {
		return
	}
	c.notifier.Send(connID, msg)
}

// send delivers to a seated human that currently holds a connection.
func (c *Coordinator) send(p *game.Player, msg any) {
	if p == nil || p.IsAI || p.Disconnected {
		return
	}
	c.sendConn(p.ConnectionID, msg)
}

func (c *Coordinator) broadcast(s *game.Session, msg any) {
	for _, p := range s.Players {
		c.send(p, msg)
	}
}
