package resultpush

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"tictac-arena/internal/arena"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	eventSessionStarted  = "session_started"
	eventSessionFinished = "session_finished"
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

// Manager implements arena.LifecycleObserver. Observer callbacks only
// enqueue; publishing happens on worker goroutines.
type Manager struct {
	cfg       Config
	publisher Publisher

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	breakerByKey map[string]breakerState
}

var _ arena.LifecycleObserver = (*Manager)(nil)

func NewManager(cfg Config, publisher Publisher) *Manager {
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}
	cfg.SubjectPrefix = strings.TrimSuffix(cfg.SubjectPrefix, ".")
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "arena"
	}
	if publisher == nil {
		cfg.Enabled = false
	}

	m := &Manager{
		cfg:          cfg,
		publisher:    publisher,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done)
	return m
}

func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
	return nil
}

func (m *Manager) OnSessionStarted(meta arena.SessionMeta) {
	m.publishEvent(eventSessionStarted, "sessions.started", meta.SessionID, meta)
}

func (m *Manager) OnSessionFinished(res arena.SessionResult) {
	m.publishEvent(eventSessionFinished, "sessions.finished", res.SessionID, res)
}

func (m *Manager) Subject(suffix string) string {
	return m.cfg.SubjectPrefix + "." + suffix
}

func (m *Manager) publishEvent(eventType, suffix, sessionID string, data any) {
	if !m.cfg.Enabled {
		return
	}
	payload, err := json.Marshal(Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		SessionID: sessionID,
		ServerTS:  time.Now().UnixMilli(),
		Data:      data,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("result_push_encode_failed")
		return
	}
	if !m.enqueue(pushJob{Subject: m.Subject(suffix), Payload: payload}) {
		metricPushDroppedTotal.Add(1)
	}
}

func (m *Manager) enqueue(job pushJob) bool {
	select {
	case <-m.done:
		return false
	case m.dispatchCh <- job:
		metricPushQueuedTotal.Add(1)
		metricPushQueueLen.Set(int64(len(m.dispatchCh)))
		return true
	default:
		return false
	}
}
