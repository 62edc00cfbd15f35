package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider map[string]Identity

func (p staticProvider) Resolve(_ context.Context, token string) (Identity, error) {
	id, ok := p[token]
	if !ok {
		return Identity{}, ErrUnknownToken
	}
	return id, nil
}

func TestResolveTokenIsRegistered(t *testing.T) {
	r := NewResolver(staticProvider{"tok": {PlayerID: "u1", DisplayName: "alice", IsGuest: true}})
	var hooked []string
	r.OnRegistered(func(_ context.Context, id Identity) error {
		hooked = append(hooked, id.PlayerID)
		return nil
	})

	id, err := r.Resolve(context.Background(), Request{Token: "tok", Identity: "guest_x"}, true)
	require.NoError(t, err)
	assert.Equal(t, Identity{PlayerID: "u1", DisplayName: "alice"}, id)
	assert.Equal(t, []string{"u1"}, hooked)
}

func TestResolveUnknownTokenAndHookError(t *testing.T) {
	r := NewResolver(staticProvider{"tok": {PlayerID: "u1"}})
	_, err := r.Resolve(context.Background(), Request{Token: "nope"}, true)
	assert.ErrorIs(t, err, ErrUnknownToken)

	boom := errors.New("db")
	r.OnRegistered(func(context.Context, Identity) error { return boom })
	_, err = r.Resolve(context.Background(), Request{Token: "tok"}, true)
	assert.ErrorIs(t, err, boom)

	_, err = NewResolver(nil).Resolve(context.Background(), Request{Token: "tok"}, true)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestResolveGuestRules(t *testing.T) {
	r := NewResolver(nil)
	ctx := context.Background()

	id, err := r.Resolve(ctx, Request{DisplayName: "bob"}, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id.PlayerID, GuestPrefix))
	assert.True(t, id.IsGuest)
	assert.Equal(t, "bob", id.DisplayName)

	id, err = r.Resolve(ctx, Request{Identity: "guest_abc"}, false)
	require.NoError(t, err)
	assert.Equal(t, "guest_abc", id.PlayerID)

	_, err = r.Resolve(ctx, Request{Identity: "u1"}, true)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	_, err = r.Resolve(ctx, Request{}, false)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	assert.False(t, IsGuestID(GuestPrefix))
}
