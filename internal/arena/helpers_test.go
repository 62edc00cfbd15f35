package arena

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/config"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/rating"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs map[string][]any
}

func (n *recordingNotifier) Send(connID string, msg any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.msgs == nil {
		n.msgs = map[string][]any{}
	}
	n.msgs[connID] = append(n.msgs[connID], msg)
}

func (n *recordingNotifier) all(connID string) []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]any(nil), n.msgs[connID]...)
}

func gameOvers(n *recordingNotifier, connID string) []GameOver {
	var out []GameOver
	for _, m := range n.all(connID) {
		if g, ok := m.(GameOver); ok {
			out = append(out, g)
		}
	}
	return out
}

func boardUpdates(n *recordingNotifier, connID string) []BoardUpdate {
	var out []BoardUpdate
	for _, m := range n.all(connID) {
		if b, ok := m.(BoardUpdate); ok {
			out = append(out, b)
		}
	}
	return out
}

func presence(n *recordingNotifier, connID, typ string) int {
	count := 0
	for _, m := range n.all(connID) {
		if p, ok := m.(OpponentPresence); ok && p.Type == typ {
			count++
		}
	}
	return count
}

type countingReporter struct {
	mu      sync.Mutex
	results []rating.GameResult
}

func (r *countingReporter) Report(_ context.Context, res rating.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func (r *countingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

type countingObserver struct {
	mu       sync.Mutex
	started  int
	finished []SessionResult
}

func (o *countingObserver) OnSessionStarted(SessionMeta) {
	o.mu.Lock()
	o.started++
	o.mu.Unlock()
}

func (o *countingObserver) OnSessionFinished(res SessionResult) {
	o.mu.Lock()
	o.finished = append(o.finished, res)
	o.mu.Unlock()
}

func (o *countingObserver) finishedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.finished)
}

type tokenProvider map[string]identity.Identity

func (p tokenProvider) Resolve(_ context.Context, token string) (identity.Identity, error) {
	id, ok := p[token]
	if !ok {
		return identity.Identity{}, identity.ErrUnknownToken
	}
	return id, nil
}

type harness struct {
	c        *Coordinator
	clock    *fakeClock
	notes    *recordingNotifier
	reporter *countingReporter
	observer *countingObserver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	notes := &recordingNotifier{}
	reporter := &countingReporter{}
	observer := &countingObserver{}
	resolver := identity.NewResolver(tokenProvider{
		"tok-a": {PlayerID: "user-a", DisplayName: "alice"},
		"tok-b": {PlayerID: "user-b", DisplayName: "bob"},
	})
	cfg := config.GameConfig{
		TurnBudget:        60 * time.Second,
		GraceCap:          10 * time.Second,
		TickInterval:      time.Hour,
		SweepInterval:     time.Hour,
		MaxIdle:           5 * time.Minute,
		FinishedRetention: 5 * time.Minute,
		ReportTimeout:     time.Second,
	}
	c := NewCoordinator(cfg, Options{
		Notifier: notes,
		Resolver: resolver,
		Reporter: reporter,
		Opponent: ai.NewOpponent(ai.OpponentConfig{ThinkMin: time.Hour, ThinkMax: time.Hour}, nil, ai.NewDefault(1)),
		Clock:    clock.Now,
	})
	c.SetLifecycleObserver(observer)
	ids := 0
	c.lobby.SetIDGenerator(func() string {
		ids++
		return "s" + strconv.Itoa(ids)
	})
	t.Cleanup(func() {
		c.mu.Lock()
		for _, id := range []string{"s1", "s2", "s3"} {
			if e := c.lobby.Get(id); e != nil {
				e.CancelTimers()
			}
		}
		c.mu.Unlock()
	})
	return &harness{c: c, clock: clock, notes: notes, reporter: reporter, observer: observer}
}

// matchGuests pairs guest_a (conn a, X) with guest_b (conn b, O) in s1.
func (h *harness) matchGuests(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := h.c.JoinQueue(ctx, "a", identity.Request{Identity: "guest_a", DisplayName: "A"}); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := h.c.JoinQueue(ctx, "b", identity.Request{Identity: "guest_b", DisplayName: "B"}); err != nil {
		t.Fatalf("join b: %v", err)
	}
}

func (h *harness) move(t *testing.T, connID string, cell int) {
	t.Helper()
	if err := h.c.MakeMove(connID, "s1", cell); err != nil {
		t.Fatalf("move %s@%d: %v", connID, cell, err)
	}
}
