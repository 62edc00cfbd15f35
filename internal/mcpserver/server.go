// Package mcpserver exposes read-only arena inspection tools over MCP.
package mcpserver

import (
	"context"
	"net/http"

	"tictac-arena/internal/game/viewmodel"
	"tictac-arena/internal/lobby"
	"tictac-arena/internal/store"

	"github.com/mark3labs/mcp-go/server"
)

type Sessions interface {
	Snapshot(sessionID string) (viewmodel.SessionView, error)
	Stats() lobby.Stats
}

type Games interface {
	GetGameBySession(ctx context.Context, sessionID string) (store.GameRecord, error)
	ListRecentGames(ctx context.Context, userID string, limit int) ([]store.GameRecord, error)
}

type Server struct {
	sessions Sessions
	games    Games

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// New builds the server. games may be nil, in which case the history tools
// answer history_unavailable.
func New(sessions Sessions, games Games) *Server {
	mcpSrv := server.NewMCPServer(
		"tictac-arena",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		sessions:   sessions,
		games:      games,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerArenaTools()
	s.registerHistoryTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}
