package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("s1",
		Player{Identity: "alice", DisplayName: "Alice"},
		Player{Identity: "bob", DisplayName: "Bob"},
		60*time.Second, epoch)
}

func TestNewSessionSeatsPlayers(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, X, s.Players[0].Symbol)
	assert.Equal(t, O, s.Players[1].Symbol)
	assert.Equal(t, "alice", s.Turn)
	assert.Equal(t, int64(60000), s.Timers["alice"])
	assert.Equal(t, int64(60000), s.Timers["bob"])
	assert.True(t, s.IsRated)
	assert.Equal(t, StatusPlaying, s.Status)

	guest := NewSession("s2", Player{Identity: "guest_1", IsGuest: true}, Player{Identity: "bob"}, time.Minute, epoch)
	assert.False(t, guest.IsRated)
}

func TestApplyMoveRowWinScenario(t *testing.T) {
	s := newTestSession(t)
	now := epoch
	moves := []struct {
		who  string
		cell int
	}{{"alice", 4}, {"bob", 0}, {"alice", 3}, {"bob", 1}}
	for _, m := range moves {
		now = now.Add(time.Second)
		out, err := ApplyMove(s, m.who, m.cell, now)
		require.NoError(t, err)
		require.Equal(t, OutcomeContinuing, out)
	}
	out, err := ApplyMove(s, "alice", 5, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, out)
	assert.Equal(t, StatusWon, s.Status)
	assert.Equal(t, "alice", s.Winner)
	assert.Equal(t, X, s.WinnerSymbol())
	assert.False(t, s.ClockRunning)

	_, err = ApplyMove(s, "bob", 8, now.Add(2*time.Second))
	assert.ErrorIs(t, err, ErrGameNotActive)
}

func TestApplyMoveValidationOrder(t *testing.T) {
	s := newTestSession(t)

	_, err := ApplyMove(s, "bob", 0, epoch)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = ApplyMove(s, "mallory", 0, epoch)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = ApplyMove(s, "alice", 12, epoch)
	assert.ErrorIs(t, err, ErrInvalidCell)
	assert.True(t, s.ClockRunning, "rejected move must not stop the clock")
	assert.Equal(t, 0, s.Moves)
}

func TestApplyMoveChargesOnlyMover(t *testing.T) {
	s := newTestSession(t)
	_, err := ApplyMove(s, "alice", 0, epoch.Add(7*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(53000), s.Timers["alice"])
	assert.Equal(t, int64(60000), s.Timers["bob"])
	assert.Equal(t, "bob", s.Turn)

	assert.Equal(t, int64(57500), s.Remaining("bob", epoch.Add(9500*time.Millisecond)))
	assert.Equal(t, int64(53000), s.Remaining("alice", epoch.Add(30*time.Second)))
}

func TestApplyMoveAfterClockExpiredForfeits(t *testing.T) {
	s := newTestSession(t)
	out, err := ApplyMove(s, "alice", 4, epoch.Add(61*time.Second))
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, out)
	assert.Equal(t, StatusWon, s.Status)
	assert.Equal(t, "bob", s.Winner)
	assert.Equal(t, Empty, s.Board[4], "move must not be applied")
	assert.Equal(t, int64(0), s.Timers["alice"])
}

func TestApplyMoveDraw(t *testing.T) {
	s := newTestSession(t)
	order := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
	var out Outcome
	for i, cell := range order {
		who := "alice"
		if i%2 == 1 {
			who = "bob"
		}
		var err error
		out, err = ApplyMove(s, who, cell, epoch.Add(time.Duration(i+1)*time.Second))
		require.NoError(t, err)
	}
	assert.Equal(t, OutcomeDraw, out)
	assert.Equal(t, StatusDraw, s.Status)
	assert.Empty(t, s.Winner)
}

func TestExpireTurn(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, ExpireTurn(s, epoch.Add(59*time.Second)))
	assert.True(t, ExpireTurn(s, epoch.Add(61*time.Second)))
	assert.Equal(t, "bob", s.Winner)
	assert.Equal(t, int64(0), s.Timers["alice"])
	assert.False(t, ExpireTurn(s, epoch.Add(62*time.Second)), "terminal session does not expire twice")
}

func TestResolveIsOneShot(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.Resolve("bob", false))
	assert.False(t, s.Resolve("alice", false))
	assert.Equal(t, "bob", s.Winner)

	a := newTestSession(t)
	require.True(t, a.Resolve("", true))
	assert.Equal(t, StatusAbandoned, a.Status)
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestSession(t)
	c := s.Clone()
	s.Timers["alice"] = 1
	s.Players[0].Disconnected = true
	assert.Equal(t, int64(60000), c.Timers["alice"])
	assert.False(t, c.Players[0].Disconnected)
}
