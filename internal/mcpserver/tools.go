package mcpserver

import (
	"context"
	"strings"

	"tictac-arena/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerArenaTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"session_state",
			mcp.WithDescription("Get the board, clocks and seats of a live or recently finished session"),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleSessionState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"arena_stats",
			mcp.WithDescription("Count queued players, live sessions, open rooms and retained results"),
		),
		s.handleArenaStats,
	)
}

func (s *Server) registerHistoryTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"game_record",
			mcp.WithDescription("Get the persisted record of a finished rated game"),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleGameRecord,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"player_games",
			mcp.WithDescription("List a registered player's recent rated games, newest first"),
			mcp.WithString("player_id", mcp.Required(), mcp.Description("Registered player id")),
			mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100")),
		),
		s.handlePlayerGames,
	)
}

func (s *Server) handleSessionState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil || strings.TrimSpace(sessionID) == "" {
		return toolError("invalid_request", "session_id is required"), nil
	}
	view, err := s.sessions.Snapshot(sessionID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(view), nil
}

func (s *Server) handleArenaStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.sessions.Stats()), nil
}

func (s *Server) handleGameRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.games == nil {
		return toolError("history_unavailable", "game history is not configured"), nil
	}
	sessionID, err := request.RequireString("session_id")
	if err != nil || strings.TrimSpace(sessionID) == "" {
		return toolError("invalid_request", "session_id is required"), nil
	}
	rec, err := s.games.GetGameBySession(ctx, sessionID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(rec), nil
}

func (s *Server) handlePlayerGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.games == nil {
		return toolError("history_unavailable", "game history is not configured"), nil
	}
	playerID, err := request.RequireString("player_id")
	if err != nil || strings.TrimSpace(playerID) == "" {
		return toolError("invalid_request", "player_id is required"), nil
	}
	items, err := s.games.ListRecentGames(ctx, playerID, clampLimit(request.GetInt("limit", defaultHistoryLimit)))
	if err != nil {
		return mapDomainError(err), nil
	}
	if items == nil {
		items = []store.GameRecord{}
	}
	return toolResult(map[string]any{"player_id": playerID, "items": items}), nil
}
