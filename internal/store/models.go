package store

import "time"

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameRecord is one finished rated game. WinnerID is nil for a draw.
type GameRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	PlayerXID  string    `json:"player_x_id"`
	PlayerOID  string    `json:"player_o_id"`
	WinnerID   *string   `json:"winner_id"`
	Reason     string    `json:"reason"`
	FinalBoard []string  `json:"final_board"`
	CreatedAt  time.Time `json:"created_at"`
}

type RatingUpdate struct {
	UserID string
	Rating int
}
