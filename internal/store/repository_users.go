package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) FindUser(ctx context.Context, id string) (User, error) {
	var u User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, display_name, rating, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.DisplayName, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, mapNotFound(err)
	}
	return u, nil
}

// UpsertUser creates the user at defaultRating or refreshes its display name.
func (s *Store) UpsertUser(ctx context.Context, id, displayName string, defaultRating int) (User, error) {
	var u User
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO users (id, display_name, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()
		RETURNING id, display_name, rating, created_at, updated_at`, id, displayName, defaultRating).
		Scan(&u.ID, &u.DisplayName, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) UpdateRating(ctx context.Context, id string, rating int) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE users SET rating = $2, updated_at = now() WHERE id = $1`, id, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRatings applies every update or none.
func (s *Store) UpdateRatings(ctx context.Context, updates []RatingUpdate) error {
	if len(updates) == 0 {
		return errors.New("no rating updates")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range updates {
		tag, err := tx.Exec(ctx, `UPDATE users SET rating = $2, updated_at = now() WHERE id = $1`, u.UserID, u.Rating)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}
	return tx.Commit(ctx)
}
