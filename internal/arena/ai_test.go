package arena

import (
	"context"
	"testing"

	"tictac-arena/internal/game"
	"tictac-arena/internal/identity"
)

func startAI(t *testing.T, h *harness) string {
	t.Helper()
	id, err := h.c.StartAIGame(context.Background(), "a", identity.Request{Identity: "guest_a"}, "hard")
	if err != nil {
		t.Fatalf("start ai: %v", err)
	}
	return id
}

func TestAIMoveDroppedOnStaleGeneration(t *testing.T) {
	h := newHarness(t)
	sid := startAI(t, h)
	botID := "ai:" + sid

	if err := h.c.MakeMove("a", sid, 4); err != nil {
		t.Fatalf("human move: %v", err)
	}
	if h.c.applyAIMove(sid, botID, 0, 0) {
		t.Fatal("stale generation must be ignored")
	}
	if !h.c.applyAIMove(sid, botID, 1, 0) {
		t.Fatal("current generation should apply")
	}
	if h.c.applyAIMove(sid, botID, 1, 2) {
		t.Fatal("a second move for the same generation must be ignored")
	}
	view, _ := h.c.Snapshot(sid)
	if view.Moves != 2 || view.State.Turn != "X" {
		t.Fatalf("unexpected state %#v", view.State)
	}
	if view.IsRated || !view.IsAI {
		t.Fatalf("ai sessions are unrated: %#v", view)
	}
}

func TestAIDisconnectAbandonsImmediately(t *testing.T) {
	h := newHarness(t)
	sid := startAI(t, h)
	h.c.ConnectionLost("a")

	view, err := h.c.Snapshot(sid)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Status != string(game.StatusAbandoned) || view.Reason != ReasonAbandoned {
		t.Fatalf("unexpected state %#v", view)
	}
	if h.c.applyAIMove(sid, "ai:"+sid, 0, 0) {
		t.Fatal("moves after teardown must be ignored")
	}
}

func TestErrorCodes(t *testing.T) {
	cases := map[error]string{
		ErrSessionNotFound:          "session_not_found",
		game.ErrNotYourTurn:         "not_your_turn",
		identity.ErrUnknownToken:    "unknown_token",
		identity.ErrInvalidIdentity: "invalid_request",
		context.Canceled:            "internal_error",
	}
	for err, want := range cases {
		if got := ErrorCode(err); got != want {
			t.Fatalf("ErrorCode(%v)=%s want %s", err, got, want)
		}
	}
}
