package store_test

import (
	"context"
	"errors"
	"testing"

	"tictac-arena/internal/store"
	"tictac-arena/internal/testutil"
)

func TestStoreBootstrapPing(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestUserUpsertAndRatings(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := st.FindUser(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	u, err := st.UpsertUser(ctx, "u1", "alice", 1000)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.Rating != 1000 || u.DisplayName != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := st.UpsertUser(ctx, "u1", "alice2", 1500); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	u, _ = st.FindUser(ctx, "u1")
	if u.Rating != 1000 || u.DisplayName != "alice2" {
		t.Fatalf("upsert should keep rating and refresh name, got %+v", u)
	}

	if _, err := st.UpsertUser(ctx, "u2", "bob", 1000); err != nil {
		t.Fatalf("upsert bob: %v", err)
	}
	if err := st.UpdateRatings(ctx, []store.RatingUpdate{{UserID: "u1", Rating: 1016}, {UserID: "u2", Rating: 984}}); err != nil {
		t.Fatalf("update ratings: %v", err)
	}
	u, _ = st.FindUser(ctx, "u2")
	if u.Rating != 984 {
		t.Fatalf("expected 984, got %d", u.Rating)
	}

	err = st.UpdateRatings(ctx, []store.RatingUpdate{{UserID: "u1", Rating: 2000}, {UserID: "missing", Rating: 1}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	u, _ = st.FindUser(ctx, "u1")
	if u.Rating != 1016 {
		t.Fatalf("partial update leaked: %d", u.Rating)
	}

	if err := st.UpdateRating(ctx, "u2", 1001); err != nil {
		t.Fatalf("update rating: %v", err)
	}
	u, _ = st.FindUser(ctx, "u2")
	if u.Rating != 1001 {
		t.Fatalf("expected 1001, got %d", u.Rating)
	}
	if err := st.UpdateRating(ctx, "missing", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordAndFetchGame(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	for _, id := range []string{"u1", "u2"} {
		if _, err := st.UpsertUser(ctx, id, id, 1000); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	winner := "u1"
	board := []string{"X", "X", "X", "O", "O", "", "", "", ""}
	id, err := st.RecordGame(ctx, store.GameRecord{
		SessionID: "s1", PlayerXID: "u1", PlayerOID: "u2", WinnerID: &winner,
		Reason: "game_complete", FinalBoard: board,
	})
	if err != nil || id == "" {
		t.Fatalf("record: id=%q err=%v", id, err)
	}
	if _, err := st.RecordGame(ctx, store.GameRecord{SessionID: "s2", PlayerXID: "u2", PlayerOID: "u1", Reason: "timeout", FinalBoard: board}); err != nil {
		t.Fatalf("record draw: %v", err)
	}

	rec, err := st.GetGameBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.WinnerID == nil || *rec.WinnerID != "u1" || rec.FinalBoard[2] != "X" || rec.FinalBoard[8] != "" {
		t.Fatalf("unexpected record %+v", rec)
	}
	rec, _ = st.GetGameBySession(ctx, "s2")
	if rec.WinnerID != nil {
		t.Fatalf("expected nil winner, got %v", *rec.WinnerID)
	}
	if _, err := st.GetGameBySession(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	games, err := st.ListRecentGames(ctx, "u1", 10)
	if err != nil || len(games) != 2 {
		t.Fatalf("list: n=%d err=%v", len(games), err)
	}
}
