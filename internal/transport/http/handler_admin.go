package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	db Pinger
}

func NewAdminHandlers(db Pinger) *AdminHandlers {
	return &AdminHandlers{db: db}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db == nil {
			writeJSON(w, map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := h.db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "db": "up"})
	}
}
