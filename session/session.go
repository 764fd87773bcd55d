// Package session provides the minimal session collaborator the caching
// layer binds to: a uuid-identified object with a mutable storage slot and
// end-of-life callback registration. Session-scoped resources register an
// OnEnd callback and are guaranteed cleanup when End runs.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one user session. All methods are safe for concurrent use,
// though a session is normally touched only from its own request stream.
type Session struct {
	id     string
	logger *zap.Logger

	mu     sync.Mutex
	values map[string]any
	onEnd  []func()
	ended  bool
}

// New creates a session with a fresh identifier.
func New(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:     uuid.NewString(),
		logger: logger,
		values: make(map[string]any),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Value reads a storage slot.
func (s *Session) Value(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// SetValue writes a storage slot. Writes after End are dropped.
func (s *Session) SetValue(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.values[key] = v
}

// Ended reports whether End has run.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// OnEnd registers a cleanup callback. Registering on an already-ended
// session runs the callback immediately.
func (s *Session) OnEnd(fn func()) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		fn()
		return
	}
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// End terminates the session: callbacks run in registration order, the
// storage slots are released, and further End calls are no-ops.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	callbacks := s.onEnd
	s.onEnd = nil
	s.values = make(map[string]any)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	s.logger.Debug("session ended", zap.String("session_id", s.id))
}
