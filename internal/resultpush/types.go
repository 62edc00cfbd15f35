// Package resultpush fans session lifecycle events out to a message bus so
// other services (leaderboards, spectators, analytics) can follow the arena.
package resultpush

import (
	"context"
	"time"
)

// Publisher delivers one payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

type Config struct {
	Enabled             bool
	SubjectPrefix       string
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	DispatchBuffer      int
}

// Event is the envelope published for every lifecycle change.
type Event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	SessionID string `json:"session_id"`
	ServerTS  int64  `json:"server_ts"`
	Data      any    `json:"data"`
}

type pushJob struct {
	Subject string
	Payload []byte
	Attempt int
}

func (j pushJob) key() string {
	return j.Subject
}
