// Package circuitbreaker guards an outbound dependency with a
// consecutive-failure breaker: after FailureThreshold failures in a row the
// breaker opens and blocks calls, and it closes again once ResetTimeout has
// elapsed since the last failure. There is no half-open probe state; a
// single recorded success fully heals the breaker.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen is returned by callers that consult IsOpen and fail fast.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Config tunes a breaker instance.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int

	// ResetTimeout is how long after the last failure an open breaker
	// closes again.
	ResetTimeout time.Duration

	// OnStateChange, if set, is invoked after every open/close
	// transition.
	OnStateChange func(open bool)
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		ResetTimeout:     5 * time.Minute,
	}
}

// Status is a read-only snapshot for observability. LastFailureAt is the
// zero time when no failure has been recorded.
type Status struct {
	Open          bool
	FailureCount  int
	LastFailureAt time.Time
}

// Breaker tracks consecutive failures for one provider. All state is
// guarded by a single mutex so concurrent successes and failures cannot
// corrupt the count, and the lazy recovery inside IsOpen cannot race with
// the write path.
type Breaker struct {
	cfg    *Config
	logger *zap.Logger

	mu            sync.Mutex
	failureCount  int
	lastFailureAt time.Time
	open          bool
}

// New creates a breaker. A nil config uses DefaultConfig; non-positive
// fields are corrected to their defaults.
func New(cfg *Config, logger *zap.Logger) *Breaker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{cfg: cfg, logger: logger}
}

// IsOpen reports whether calls are currently blocked.
//
// It is deliberately not a pure read: when the breaker is open and
// ResetTimeout has elapsed since the last failure, IsOpen transitions the
// breaker back to closed (failure count reset to zero) before answering.
// Recovery is evaluated lazily here instead of on a timer, under the same
// mutex as the write operations.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return false
	}
	if time.Since(b.lastFailureAt) > b.cfg.ResetTimeout {
		b.logger.Info("circuit breaker reset timeout elapsed, closing",
			zap.Duration("reset_timeout", b.cfg.ResetTimeout),
			zap.Int("failure_count", b.failureCount),
		)
		b.setOpen(false)
		b.failureCount = 0
		return false
	}
	return true
}

// RecordFailure counts one call failure and opens the breaker once the
// threshold is reached. Opening is not an error to the caller; the next
// call attempt fails fast via IsOpen instead.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailureAt = time.Now()

	if !b.open && b.failureCount >= b.cfg.FailureThreshold {
		b.logger.Warn("circuit breaker opened",
			zap.Int("failure_count", b.failureCount),
			zap.Int("threshold", b.cfg.FailureThreshold),
		)
		b.setOpen(true)
	}
}

// RecordSuccess fully heals the breaker: failure count back to zero,
// breaker closed. One success is enough; there is no limited trial traffic.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		b.logger.Info("circuit breaker closed after successful call")
	}
	b.failureCount = 0
	b.setOpen(false)
}

// Status returns a snapshot of the breaker state. Unlike IsOpen it never
// mutates state, so a status probe cannot trigger recovery.
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Open:          b.open,
		FailureCount:  b.failureCount,
		LastFailureAt: b.lastFailureAt,
	}
}

// Reset is an administrative override: forces the breaker closed and zeroes
// the failure count regardless of timing.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open || b.failureCount > 0 {
		b.logger.Info("circuit breaker reset",
			zap.Bool("was_open", b.open),
			zap.Int("failure_count", b.failureCount),
		)
	}
	b.failureCount = 0
	b.lastFailureAt = time.Time{}
	b.setOpen(false)
}

// setOpen flips the open flag and fires the transition callback. Caller
// must hold b.mu.
func (b *Breaker) setOpen(open bool) {
	if b.open == open {
		return
	}
	b.open = open
	if b.cfg.OnStateChange != nil {
		go b.cfg.OnStateChange(open)
	}
}
