// Package identity resolves who a connection plays as: a login token
// becomes a registered player, anything else is a guest.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const GuestPrefix = "guest_"

var (
	ErrUnknownToken    = errors.New("unknown_token")
	ErrInvalidIdentity = errors.New("invalid_request")
)

type Identity struct {
	PlayerID    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// Provider resolves an external login token.
type Provider interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

func NewGuest() string {
	return GuestPrefix + uuid.NewString()
}

func IsGuestID(id string) bool {
	return strings.HasPrefix(id, GuestPrefix) && len(id) > len(GuestPrefix)
}

// Request is what a client claims when it joins.
type Request struct {
	Token       string
	Identity    string
	DisplayName string
}

// Resolver applies the join rules on top of a Provider. A nil Provider
// rejects every token.
type Resolver struct {
	provider Provider
	onUser   func(ctx context.Context, id Identity) error
}

func NewResolver(p Provider) *Resolver {
	return &Resolver{provider: p}
}

// OnRegistered sets a hook run for every token-resolved player, typically a
// user upsert. Hook errors fail the resolution.
func (r *Resolver) OnRegistered(fn func(ctx context.Context, id Identity) error) {
	r.onUser = fn
}

// Resolve returns the caller's identity. With mint set, a request carrying
// neither token nor identity gets a fresh guest id.
func (r *Resolver) Resolve(ctx context.Context, req Request, mint bool) (Identity, error) {
	if req.Token != "" {
		if r.provider == nil {
			return Identity{}, ErrUnknownToken
		}
		id, err := r.provider.Resolve(ctx, req.Token)
		if err != nil {
			return Identity{}, err
		}
		id.IsGuest = false
		if id.DisplayName == "" {
			id.DisplayName = req.DisplayName
		}
		if r.onUser != nil {
			if err := r.onUser(ctx, id); err != nil {
				return Identity{}, err
			}
		}
		return id, nil
	}
	switch {
	case req.Identity == "" && mint:
		req.Identity = NewGuest()
	case !IsGuestID(req.Identity):
		return Identity{}, ErrInvalidIdentity
	}
	name := req.DisplayName
	if name == "" {
		name = "Guest"
	}
	return Identity{PlayerID: req.Identity, DisplayName: name, IsGuest: true}, nil
}
