package mcpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"tictac-arena/internal/arena"
	"tictac-arena/internal/config"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/store"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeGames struct {
	records map[string]store.GameRecord
}

func (f *fakeGames) GetGameBySession(_ context.Context, sessionID string) (store.GameRecord, error) {
	rec, ok := f.records[sessionID]
	if !ok {
		return store.GameRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeGames) ListRecentGames(_ context.Context, userID string, _ int) ([]store.GameRecord, error) {
	var out []store.GameRecord
	for _, rec := range f.records {
		if rec.PlayerXID == userID || rec.PlayerOID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newCoordinator() *arena.Coordinator {
	return arena.NewCoordinator(config.GameConfig{
		TurnBudget:   time.Minute,
		GraceCap:     10 * time.Second,
		TickInterval: time.Hour,
	}, arena.Options{})
}

func TestMCPServerTools(t *testing.T) {
	coord := newCoordinator()
	sessionID, err := coord.StartAIGame(context.Background(), "conn-1", identity.Request{DisplayName: "Ana"}, "easy")
	if err != nil {
		t.Fatalf("start ai game: %v", err)
	}
	winner := "user-a"
	games := &fakeGames{records: map[string]store.GameRecord{
		"s-old": {ID: "g1", SessionID: "s-old", PlayerXID: "user-a", PlayerOID: "user-b", WinnerID: &winner, Reason: "game_complete"},
	}}

	srv := New(coord, games)
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolNames(t, mustListTools(t, mcpClient), "session_state", "arena_stats", "game_record", "player_games")

	state := mustCallTool(t, mcpClient, "session_state", map[string]any{"session_id": sessionID})
	if state.IsError {
		t.Fatalf("session_state expected success, got: %v", state.StructuredContent)
	}
	sm := mapFromStructured(t, state)
	if sm["session_id"] != sessionID || sm["status"] != "playing" || sm["is_ai"] != true {
		t.Fatalf("unexpected session_state: %v", sm)
	}

	stats := mustCallTool(t, mcpClient, "arena_stats", map[string]any{})
	if stats.IsError {
		t.Fatalf("arena_stats expected success, got: %v", stats.StructuredContent)
	}
	if got := mapFromStructured(t, stats)["ai_sessions"]; got != float64(1) {
		t.Fatalf("expected 1 ai session, got %v", got)
	}

	rec := mustCallTool(t, mcpClient, "game_record", map[string]any{"session_id": "s-old"})
	if rec.IsError {
		t.Fatalf("game_record expected success, got: %v", rec.StructuredContent)
	}
	if got := mapFromStructured(t, rec)["winner_id"]; got != "user-a" {
		t.Fatalf("expected winner user-a, got %v", got)
	}

	list := mustCallTool(t, mcpClient, "player_games", map[string]any{"player_id": "user-b", "limit": 5})
	if list.IsError {
		t.Fatalf("player_games expected success, got: %v", list.StructuredContent)
	}
	items, _ := mapFromStructured(t, list)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one game for user-b, got %d", len(items))
	}
}

func TestMCPServerToolErrors(t *testing.T) {
	srv := New(newCoordinator(), &fakeGames{})
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolErrorCode(t, mustCallTool(t, mcpClient, "session_state", map[string]any{"session_id": "nope"}), "session_not_found")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "session_state", map[string]any{}), "invalid_request")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "game_record", map[string]any{"session_id": "nope"}), "game_not_found")
}

func TestMCPServerWithoutHistory(t *testing.T) {
	srv := New(newCoordinator(), nil)
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolErrorCode(t, mustCallTool(t, mcpClient, "game_record", map[string]any{"session_id": "s1"}), "history_unavailable")
	assertToolErrorCode(t, mustCallTool(t, mcpClient, "player_games", map[string]any{"player_id": "user-a"}), "history_unavailable")
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{{0, 20}, {-3, 20}, {7, 7}, {500, 100}}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Fatalf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return res
}

func assertToolErrorCode(t *testing.T, res *mcp.CallToolResult, want string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error %s, got success: %v", want, res.StructuredContent)
	}
	m := mapFromStructured(t, res)
	errObj, _ := m["error"].(map[string]any)
	if errObj == nil || errObj["code"] != want {
		t.Fatalf("expected error code %s, got %v", want, m)
	}
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}
