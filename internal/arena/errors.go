package arena

import (
	"errors"
	"net/http"

	"tictac-arena/internal/game"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/lobby"
)

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrSessionNotFound = errors.New("session_not_found")
	ErrNotAParticipant = errors.New("not_a_participant")
)

// ErrorCode maps err to the wire code carried by errorMessage.
func ErrorCode(err error) string {
	_, code := MapHTTPError(err)
	return code
}

func MapHTTPError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, ErrNotAParticipant):
		return http.StatusForbidden, "not_a_participant"
	case errors.Is(err, game.ErrNotYourTurn):
		return http.StatusConflict, "not_your_turn"
	case errors.Is(err, game.ErrInvalidCell):
		return http.StatusBadRequest, "invalid_cell"
	case errors.Is(err, game.ErrGameNotActive):
		return http.StatusGone, "game_not_active"
	case errors.Is(err, lobby.ErrAlreadyQueued):
		return http.StatusConflict, "already_queued"
	case errors.Is(err, lobby.ErrAlreadyInSession):
		return http.StatusConflict, "already_in_session"
	case errors.Is(err, lobby.ErrRoomNotFound):
		return http.StatusNotFound, "room_not_found"
	case errors.Is(err, lobby.ErrInvalidPassword):
		return http.StatusForbidden, "invalid_password"
	case errors.Is(err, identity.ErrUnknownToken):
		return http.StatusUnauthorized, "unknown_token"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, lobby.ErrInvalidPlayer), errors.Is(err, identity.ErrInvalidIdentity):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
