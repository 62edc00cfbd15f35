package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"tictac-arena/internal/arena"
	"tictac-arena/internal/game/viewmodel"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/lobby"
	"tictac-arena/internal/store"

	"github.com/go-chi/chi/v5"
)

// Sessions is the read side of the live coordinator.
type Sessions interface {
	Snapshot(sessionID string) (viewmodel.SessionView, error)
	Stats() lobby.Stats
}

// Games is the read side of the persisted game history.
type Games interface {
	GetGameBySession(ctx context.Context, sessionID string) (store.GameRecord, error)
	ListRecentGames(ctx context.Context, userID string, limit int) ([]store.GameRecord, error)
}

type PublicHandlers struct {
	sessions Sessions
	games    Games
}

func NewPublicHandlers(sessions Sessions, games Games) *PublicHandlers {
	return &PublicHandlers{sessions: sessions, games: games}
}

type guestRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *PublicHandlers) Guest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			name = "Guest"
		}
		metricGuestMintTotal.Add(1)
		writeJSON(w, identity.Identity{PlayerID: identity.NewGuest(), DisplayName: name, IsGuest: true})
	}
}

func (h *PublicHandlers) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSnapshotQueryTotal.Add(1)
		view, err := h.sessions.Snapshot(chi.URLParam(r, "session_id"))
		if err != nil {
			if errors.Is(err, arena.ErrSessionNotFound) {
				metricSnapshotQueryMisses.Add(1)
			}
			status, code := arena.MapHTTPError(err)
			WriteHTTPError(w, status, code)
			return
		}
		writeJSON(w, view)
	}
}

func (h *PublicHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.sessions.Stats())
	}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricGameQueryTotal.Add(1)
		if h.games == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "history_unavailable")
			return
		}
		rec, err := h.games.GetGameBySession(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "game_not_found")
				return
			}
			metricGameQueryErrors.Add(1)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, rec)
	}
}

func (h *PublicHandlers) PlayerGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricGameQueryTotal.Add(1)
		if h.games == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "history_unavailable")
			return
		}
		playerID := chi.URLParam(r, "player_id")
		if identity.IsGuestID(playerID) {
			writeJSON(w, map[string]any{"items": []store.GameRecord{}})
			return
		}
		items, err := h.games.ListRecentGames(r.Context(), playerID, ParseLimit(r))
		if err != nil {
			metricGameQueryErrors.Add(1)
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if items == nil {
			items = []store.GameRecord{}
		}
		writeJSON(w, map[string]any{"items": items})
	}
}
