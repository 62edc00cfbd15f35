package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/arena"
	"tictac-arena/internal/config"
	"tictac-arena/internal/game"
	"tictac-arena/internal/game/viewmodel"
	"tictac-arena/internal/ws"

	"github.com/gorilla/websocket"
)

func newBotPair(t *testing.T) (*bot, <-chan ws.ClientMessage) {
	t.Helper()
	got := make(chan ws.ClientMessage, 8)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg ws.ClientMessage
			if json.Unmarshal(raw, &msg) == nil {
				got <- msg
			}
		}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &bot{conn: conn, cfg: config.BotConfig{Games: 1}, strategy: ai.NewDefault(1)}, got
}

func update(sessionID, turn string, cells map[int]string) arena.BoardUpdate {
	var board [9]*string
	for i, v := range cells {
		v := v
		board[i] = &v
	}
	return arena.BoardUpdate{Type: "boardUpdate", BoardStateView: viewmodel.BoardStateView{
		SessionID: sessionID,
		Board:     board,
		Turn:      turn,
		Status:    string(game.StatusPlaying),
	}}
}

func TestBotMovesOncePerPosition(t *testing.T) {
	b, got := newBotPair(t)
	b.sessionID = "s1"
	b.symbol = game.X
	b.lastMoved = -1

	u := update("s1", "X", map[int]string{0: "X", 1: "X", 3: "O", 4: "O"})
	if err := b.maybeMove(u); err != nil {
		t.Fatalf("move: %v", err)
	}
	// A clock tick repeats the same board.
	if err := b.maybeMove(u); err != nil {
		t.Fatalf("repeat: %v", err)
	}

	select {
	case msg := <-got:
		if msg.Type != ws.TypeMakeMove || msg.SessionID != "s1" || msg.CellIndex == nil || *msg.CellIndex != 2 {
			t.Fatalf("expected winning move on 2, got %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a move")
	}
	select {
	case msg := <-got:
		t.Fatalf("unexpected second move %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBotIgnoresOpponentTurn(t *testing.T) {
	b, got := newBotPair(t)
	b.sessionID = "s1"
	b.symbol = game.O
	b.lastMoved = -1

	if err := b.maybeMove(update("s1", "X", nil)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := b.maybeMove(update("other", "O", nil)); err != nil {
		t.Fatalf("move: %v", err)
	}
	select {
	case msg := <-got:
		t.Fatalf("unexpected move %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
