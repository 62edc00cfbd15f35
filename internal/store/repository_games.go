package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) RecordGame(ctx context.Context, rec GameRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	board, err := json.Marshal(rec.FinalBoard)
	if err != nil {
		return "", err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO games (id, session_id, player_x_id, player_o_id, winner_id, reason, final_board)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.SessionID, rec.PlayerXID, rec.PlayerOID, textPtrParam(rec.WinnerID), rec.Reason, board)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Store) GetGameBySession(ctx context.Context, sessionID string) (GameRecord, error) {
	var (
		rec    GameRecord
		winner pgtype.Text
		board  []byte
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT id, session_id, player_x_id, player_o_id, winner_id, reason, final_board, created_at
		FROM games WHERE session_id = $1`, sessionID).
		Scan(&rec.ID, &rec.SessionID, &rec.PlayerXID, &rec.PlayerOID, &winner, &rec.Reason, &board, &rec.CreatedAt)
	if err != nil {
		return GameRecord{}, mapNotFound(err)
	}
	rec.WinnerID = textPtrVal(winner)
	if err := json.Unmarshal(board, &rec.FinalBoard); err != nil {
		return GameRecord{}, err
	}
	return rec, nil
}

func (s *Store) ListRecentGames(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, session_id, player_x_id, player_o_id, winner_id, reason, final_board, created_at
		FROM games WHERE player_x_id = $1 OR player_o_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GameRecord
	for rows.Next() {
		var (
			rec    GameRecord
			winner pgtype.Text
			board  []byte
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlayerXID, &rec.PlayerOID, &winner, &rec.Reason, &board, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.WinnerID = textPtrVal(winner)
		if err := json.Unmarshal(board, &rec.FinalBoard); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
