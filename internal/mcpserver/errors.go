package mcpserver

import (
	"errors"
	"fmt"

	"tictac-arena/internal/arena"
	"tictac-arena/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, store.ErrNotFound):
		return toolError("game_not_found", err.Error())
	default:
		return toolError(arena.ErrorCode(err), err.Error())
	}
}
