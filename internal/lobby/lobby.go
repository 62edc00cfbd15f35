// Package lobby owns every in-memory registry of the arena: the matchmaking
// queue, live sessions, connection bindings, private rooms and recently
// finished results. It is not safe for concurrent use; the arena Coordinator
// serializes all calls.
package lobby

import (
	"errors"
	"time"

	"tictac-arena/internal/game"

	"github.com/google/uuid"
)

var (
	ErrAlreadyQueued    = errors.New("already_queued")
	ErrAlreadyInSession = errors.New("already_in_session")
	ErrRoomNotFound     = errors.New("room_not_found")
	ErrInvalidPassword  = errors.New("invalid_password")
	ErrInvalidPlayer    = errors.New("invalid_request")
)

// Entry is a live session plus the runtime handles attached to it.
type Entry struct {
	Session *game.Session
	Closed  bool

	GraceTimers map[string]*time.Timer
	GraceSeq    map[string]uint64
	StopClock   func()
	CancelAI    func()
	AIPending   bool
}

// CancelTimers stops the grace timers, the clock tick and any pending AI move.
func (e *Entry) CancelTimers() {
	for id, t := range e.GraceTimers {
		t.Stop()
		delete(e.GraceTimers, id)
	}
	if e.StopClock != nil {
		e.StopClock()
		e.StopClock = nil
	}
	if e.CancelAI != nil {
		e.CancelAI()
		e.CancelAI = nil
	}
	e.AIPending = false
}

// CancelGrace disarms the grace timer for identity and invalidates any
// callback already in flight.
func (e *Entry) CancelGrace(identity string) {
	if t := e.GraceTimers[identity]; t != nil {
		t.Stop()
		delete(e.GraceTimers, identity)
	}
	e.GraceSeq[identity]++
}

type Binding struct {
	Identity  string
	SessionID string
}

// Finished is a terminal session kept around so late joiners still get the
// result.
type Finished struct {
	Session    *game.Session
	Reason     string
	FinishedAt time.Time
}

type EnqueueResult struct {
	Matched  bool
	Position int
	Entry    *Entry
}

type Lobby struct {
	turnBudget time.Duration
	newID      func() string

	queue      []game.Player
	sessions   map[string]*Entry
	byIdentity map[string]string
	bindings   map[string]Binding
	rooms      map[string]*Room
	finished   map[string]*Finished
}

func New(turnBudget time.Duration) *Lobby {
	if turnBudget <= 0 {
		turnBudget = 60 * time.Second
	}
	return &Lobby{
		turnBudget: turnBudget,
		newID:      uuid.NewString,
		sessions:   map[string]*Entry{},
		byIdentity: map[string]string{},
		bindings:   map[string]Binding{},
		rooms:      map[string]*Room{},
		finished:   map[string]*Finished{},
	}
}

// SetIDGenerator replaces the session id source. Used by tests.
func (l *Lobby) SetIDGenerator(fn func() string) {
	l.newID = fn
}

// Enqueue adds p to the FIFO queue and pairs the two oldest entries once two
// are waiting.
func (l *Lobby) Enqueue(p game.Player, now time.Time) (EnqueueResult, error) {
	if p.Identity == "" || p.ConnectionID == "" {
		return EnqueueResult{}, ErrInvalidPlayer
	}
	for _, q := range l.queue {
		if q.Identity == p.Identity || q.ConnectionID == p.ConnectionID {
			return EnqueueResult{}, ErrAlreadyQueued
		}
	}
	if l.identityBusy(p.Identity) {
		return EnqueueResult{}, ErrAlreadyInSession
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = now
	}
	l.queue = append(l.queue, p)
	if len(l.queue) < 2 {
		return EnqueueResult{Position: len(l.queue)}, nil
	}
	first, second := l.queue[0], l.queue[1]
	l.queue = append(l.queue[:0:0], l.queue[2:]...)
	entry := l.CreateSession(first, second, now)
	return EnqueueResult{Matched: true, Entry: entry}, nil
}

// DequeueByConnection drops a waiting entry and any room hosted by connID.
// It reports whether anything was removed.
func (l *Lobby) DequeueByConnection(connID string) bool {
	removed := false
	for i, q := range l.queue {
		if q.ConnectionID == connID {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			removed = true
			break
		}
	}
	for id, r := range l.rooms {
		if r.Host.ConnectionID == connID {
			delete(l.rooms, id)
			removed = true
		}
	}
	return removed
}

func (l *Lobby) QueuePosition(identity string) int {
	for i, q := range l.queue {
		if q.Identity == identity {
			return i + 1
		}
	}
	return 0
}

// Queued returns the waiting players oldest first.
func (l *Lobby) Queued() []game.Player {
	return append([]game.Player(nil), l.queue...)
}

func (l *Lobby) QueueLen() int {
	return len(l.queue)
}

func (l *Lobby) Get(sessionID string) *Entry {
	return l.sessions[sessionID]
}

func (l *Lobby) SessionOf(identity string) *Entry {
	id, ok := l.byIdentity[identity]
	if !ok {
		return nil
	}
	return l.sessions[id]
}

func (l *Lobby) Finished(sessionID string) *Finished {
	return l.finished[sessionID]
}

// Remove retires a live session. Removing an unknown id is a no-op.
func (l *Lobby) Remove(sessionID, reason string, now time.Time) {
	e := l.sessions[sessionID]
	if e == nil {
		return
	}
	e.CancelTimers()
	delete(l.sessions, sessionID)
	for _, p := range e.Session.Players {
		if p == nil {
			continue
		}
		if l.byIdentity[p.Identity] == sessionID {
			delete(l.byIdentity, p.Identity)
		}
	}
	for connID, b := range l.bindings {
		if b.SessionID == sessionID {
			delete(l.bindings, connID)
		}
	}
	l.finished[sessionID] = &Finished{Session: e.Session.Clone(), Reason: reason, FinishedAt: now}
}

func (l *Lobby) Bind(connID, identity, sessionID string) {
	l.bindings[connID] = Binding{Identity: identity, SessionID: sessionID}
}

func (l *Lobby) Binding(connID string) (Binding, bool) {
	b, ok := l.bindings[connID]
	return b, ok
}

func (l *Lobby) Unbind(connID string) (Binding, bool) {
	b, ok := l.bindings[connID]
	if ok {
		delete(l.bindings, connID)
	}
	return b, ok
}

// Idle lists live entries with no activity since now-maxIdle.
func (l *Lobby) Idle(now time.Time, maxIdle time.Duration) []*Entry {
	if maxIdle <= 0 {
		return nil
	}
	var out []*Entry
	for _, e := range l.sessions {
		if now.Sub(e.Session.LastActivityAt) > maxIdle {
			out = append(out, e)
		}
	}
	return out
}

func (l *Lobby) PruneFinished(now time.Time, retention time.Duration) int {
	n := 0
	for id, f := range l.finished {
		if now.Sub(f.FinishedAt) > retention {
			delete(l.finished, id)
			n++
		}
	}
	return n
}

type Stats struct {
	Queued     int `json:"queued"`
	Live       int `json:"live_sessions"`
	AISessions int `json:"ai_sessions"`
	Rooms      int `json:"open_rooms"`
	Finished   int `json:"finished_retained"`
}

func (l *Lobby) Stats() Stats {
	st := Stats{Queued: len(l.queue), Live: len(l.sessions), Rooms: len(l.rooms), Finished: len(l.finished)}
	for _, e := range l.sessions {
		if e.Session.IsAI {
			st.AISessions++
		}
	}
	return st
}

func (l *Lobby) identityBusy(identity string) bool {
	if l.SessionOf(identity) != nil {
		return true
	}
	for _, r := range l.rooms {
		if r.Host.Identity == identity {
			return true
		}
	}
	return false
}

func (l *Lobby) register(s *game.Session) *Entry {
	e := &Entry{
		Session:     s,
		GraceTimers: map[string]*time.Timer{},
		GraceSeq:    map[string]uint64{},
	}
	l.sessions[s.ID] = e
	for _, p := range s.Players {
		if p != nil && !p.IsAI {
			l.byIdentity[p.Identity] = s.ID
		}
	}
	return e
}
