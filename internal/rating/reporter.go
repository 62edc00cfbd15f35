// Package rating turns finished rated games into persisted records and Elo
// updates.
package rating

import (
	"context"
	"errors"
	"fmt"

	"tictac-arena/internal/store"

	"github.com/rs/zerolog/log"
)

// GameResult is the outcome handed over by the coordinator at teardown.
type GameResult struct {
	SessionID  string
	PlayerX    string
	PlayerO    string
	Winner     string
	FinalBoard []string
	Reason     string
	Rated      bool
}

type Gateway interface {
	FindUser(ctx context.Context, id string) (store.User, error)
	RecordGame(ctx context.Context, rec store.GameRecord) (string, error)
	UpdateRatings(ctx context.Context, updates []store.RatingUpdate) error
}

type Reporter struct {
	gw            Gateway
	k             int
	defaultRating int
}

func NewReporter(gw Gateway, k, defaultRating int) *Reporter {
	if k <= 0 {
		k = 32
	}
	if defaultRating <= 0 {
		defaultRating = 1000
	}
	return &Reporter{gw: gw, k: k, defaultRating: defaultRating}
}

// Report stores the game and moves both ratings. Unrated results are skipped.
func (r *Reporter) Report(ctx context.Context, res GameResult) error {
	if !res.Rated {
		return nil
	}
	rx, err := r.currentRating(ctx, res.PlayerX)
	if err != nil {
		return fmt.Errorf("load rating %s: %w", res.PlayerX, err)
	}
	ro, err := r.currentRating(ctx, res.PlayerO)
	if err != nil {
		return fmt.Errorf("load rating %s: %w", res.PlayerO, err)
	}

	var winnerID *string
	if res.Winner != "" {
		w := res.Winner
		winnerID = &w
	}
	id, err := r.gw.RecordGame(ctx, store.GameRecord{
		SessionID:  res.SessionID,
		PlayerXID:  res.PlayerX,
		PlayerOID:  res.PlayerO,
		WinnerID:   winnerID,
		Reason:     res.Reason,
		FinalBoard: res.FinalBoard,
	})
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}

	sx := score(res.PlayerX, res.Winner)
	updates := []store.RatingUpdate{
		{UserID: res.PlayerX, Rating: Elo(rx, ro, sx, r.k)},
		{UserID: res.PlayerO, Rating: Elo(ro, rx, 1-sx, r.k)},
	}
	if err := r.gw.UpdateRatings(ctx, updates); err != nil {
		return fmt.Errorf("update ratings: %w", err)
	}
	log.Info().
		Str("session_id", res.SessionID).
		Str("game_id", id).
		Int("rating_x", updates[0].Rating).
		Int("rating_o", updates[1].Rating).
		Msg("game_recorded")
	return nil
}

func (r *Reporter) currentRating(ctx context.Context, id string) (int, error) {
	u, err := r.gw.FindUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return r.defaultRating, nil
	}
	if err != nil {
		return 0, err
	}
	return u.Rating, nil
}

func score(player, winner string) float64 {
	switch winner {
	case "":
		return 0.5
	case player:
		return 1
	default:
		return 0
	}
}
