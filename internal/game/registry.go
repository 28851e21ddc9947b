package game

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizclash/api/internal/model"
)

// EvictionPolicy bounds the registry: sessions stuck in waiting are
// reclaimed after IdleTimeout, ended sessions after Retention.
type EvictionPolicy struct {
	IdleTimeout   time.Duration
	Retention     time.Duration
	SweepInterval time.Duration
}

// Registry owns the code -> Session map. The map itself is the only shared
// structure; per-session mutation is serialized by each Session's own lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	notifier Notifier
	sink     ResultSink
	clock    func() time.Time
	log      *zap.Logger
	policy   EvictionPolicy

	done chan struct{}
	once sync.Once
}

// NewRegistry creates a registry. Call Close to stop the eviction sweep.
func NewRegistry(notifier Notifier, sink ResultSink, policy EvictionPolicy, log *zap.Logger) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		notifier: notifier,
		sink:     sink,
		clock:    time.Now,
		log:      log,
		policy:   policy,
		done:     make(chan struct{}),
	}
	if policy.SweepInterval > 0 {
		go r.sweepLoop()
	}
	return r
}

// NormalizeCode upper-cases a session code; codes are case-insensitive on
// the wire.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create registers a session under code, or returns the existing one.
// Creation is idempotent: concurrent creators observe the same instance.
func (r *Registry) Create(code string, settings model.Settings, questions []model.Question) *Session {
	code = NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, exists := r.sessions[code]; exists {
		return s
	}
	s := newSession(code, settings, questions, r.notifier, r.sink, r.clock, r.log)
	r.sessions[code] = s
	r.log.Info("session created",
		zap.String("code", code),
		zap.String("variant", string(settings.Variant)))
	return s
}

// Get returns the session for code.
func (r *Registry) Get(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[NormalizeCode(code)]
	if !exists {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// Exists reports whether code is taken by a live session.
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.sessions[NormalizeCode(code)]
	return exists
}

// Remove drops a session, disarming its clock so it cannot fire into a
// reused code.
func (r *Registry) Remove(code string) {
	code = NormalizeCode(code)

	r.mu.Lock()
	s, exists := r.sessions[code]
	delete(r.sessions, code)
	r.mu.Unlock()

	if exists {
		s.mu.Lock()
		s.disarmClockLocked()
		s.mu.Unlock()
		r.log.Info("session removed", zap.String("code", code))
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the eviction sweep.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(r.policy.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			evicted := r.Sweep()
			if evicted > 0 {
				r.log.Info("evicted sessions", zap.Int("count", evicted))
			}
		}
	}
}

// Sweep evicts sessions past their idle or retention window and returns how
// many were removed.
func (r *Registry) Sweep() int {
	now := r.clock()

	r.mu.RLock()
	var expired []string
	for code, s := range r.sessions {
		s.mu.Lock()
		var stale bool
		switch s.state {
		case model.GameStateEnded:
			stale = now.Sub(s.endedAt) > r.policy.Retention
		case model.GameStateWaiting:
			stale = now.Sub(s.lastActivity) > r.policy.IdleTimeout
		}
		s.mu.Unlock()
		if stale {
			expired = append(expired, code)
		}
	}
	r.mu.RUnlock()

	for _, code := range expired {
		r.Remove(code)
	}
	return len(expired)
}
