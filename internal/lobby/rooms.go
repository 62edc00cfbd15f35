package lobby

import (
	"bytes"
	"time"

	"tictac-arena/internal/game"

	"golang.org/x/crypto/bcrypt"
)

// Room is a private pairing slot opened by a host and claimed with a password.
type Room struct {
	ID           string
	Host         game.Player
	PasswordHash []byte
	CreatedAt    time.Time
}

// HashRoomPassword and CheckRoomPassword run bcrypt and must be called
// without holding the lock that guards the Lobby.
func HashRoomPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrInvalidPassword
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func CheckRoomPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// OpenRoom parks host behind a password hash from HashRoomPassword.
func (l *Lobby) OpenRoom(host game.Player, passwordHash []byte, now time.Time) (*Room, error) {
	if host.Identity == "" || host.ConnectionID == "" || len(passwordHash) == 0 {
		return nil, ErrInvalidPlayer
	}
	if l.QueuePosition(host.Identity) > 0 {
		return nil, ErrAlreadyQueued
	}
	if l.identityBusy(host.Identity) {
		return nil, ErrAlreadyInSession
	}
	if host.JoinedAt.IsZero() {
		host.JoinedAt = now
	}
	r := &Room{ID: l.newID(), Host: host, PasswordHash: passwordHash, CreatedAt: now}
	l.rooms[r.ID] = r
	return r, nil
}

func (l *Lobby) RoomPasswordHash(roomID string) ([]byte, error) {
	r := l.rooms[roomID]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r.PasswordHash, nil
}

// ClaimRoom pairs guest with the room's host (host plays X) and closes the
// room. checkedHash is the hash the guest's password was verified against;
// a room that was closed or replaced since then is reported as not found.
func (l *Lobby) ClaimRoom(roomID string, guest game.Player, checkedHash []byte, now time.Time) (*Entry, error) {
	r := l.rooms[roomID]
	if r == nil || len(checkedHash) == 0 || !bytes.Equal(r.PasswordHash, checkedHash) {
		return nil, ErrRoomNotFound
	}
	if guest.Identity == "" || guest.ConnectionID == "" || guest.Identity == r.Host.Identity {
		return nil, ErrInvalidPlayer
	}
	if l.identityBusy(guest.Identity) || l.QueuePosition(guest.Identity) > 0 {
		return nil, ErrAlreadyInSession
	}
	delete(l.rooms, roomID)
	if guest.JoinedAt.IsZero() {
		guest.JoinedAt = now
	}
	e := l.CreateSession(r.Host, guest, now)
	e.Session.Private = true
	return e, nil
}

func (l *Lobby) PruneRooms(now time.Time, maxAge time.Duration) int {
	n := 0
	for id, r := range l.rooms {
		if now.Sub(r.CreatedAt) > maxAge {
			delete(l.rooms, id)
			n++
		}
	}
	return n
}
