package mcpserver

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
