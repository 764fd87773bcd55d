package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/llm/circuitbreaker"
)

// Gateway issues the outbound provider call under a hard timeout and feeds
// outcomes into the provider's circuit breaker. One gateway (and one
// breaker) exists per provider.
type Gateway struct {
	provider Provider
	breaker  *circuitbreaker.Breaker
	logger   *zap.Logger
}

// NewGateway wraps provider with breaker protection.
func NewGateway(provider Provider, breaker *circuitbreaker.Breaker, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{provider: provider, breaker: breaker, logger: logger}
}

// Provider returns the wrapped provider.
func (g *Gateway) Provider() Provider { return g.provider }

// Breaker returns the breaker guarding this gateway, for status probes and
// administrative resets.
func (g *Gateway) Breaker() *circuitbreaker.Breaker { return g.breaker }

type callResult struct {
	resp *ProviderResponse
	err  error
}

// Call performs one guarded provider call.
//
// An open breaker fails fast with ErrCircuitOpen before any network
// attempt; failing fast does not record a new failure. A timeout or
// transport error records exactly one failure and maps to ErrTimeout or
// ErrAPIError respectively; a success records exactly one success.
func (g *Gateway) Call(ctx context.Context, prompt, model string, timeout time.Duration) (*ProviderResponse, error) {
	if g.breaker.IsOpen() {
		g.logger.Warn("call rejected, circuit breaker open",
			zap.String("provider", string(g.provider.ID())),
		)
		return nil, &Error{
			Code:      ErrCircuitOpen,
			Message:   "circuit breaker open, provider temporarily blocked",
			Provider:  string(g.provider.ID()),
			Retryable: true,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late provider return after timeout is dropped without
	// leaking the goroutine.
	resultCh := make(chan callResult, 1)
	go func() {
		resp, err := g.provider.Call(callCtx, prompt, model)
		resultCh <- callResult{resp: resp, err: err}
	}()

	select {
	case <-callCtx.Done():
		g.breaker.RecordFailure()
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			g.logger.Warn("provider call timed out",
				zap.String("provider", string(g.provider.ID())),
				zap.Duration("timeout", timeout),
			)
			return nil, &Error{
				Code:      ErrTimeout,
				Message:   "provider call exceeded " + timeout.String(),
				Provider:  string(g.provider.ID()),
				Retryable: true,
			}
		}
		return nil, &Error{
			Code:     ErrAPIError,
			Message:  "provider call canceled: " + callCtx.Err().Error(),
			Provider: string(g.provider.ID()),
		}

	case res := <-resultCh:
		if res.err != nil {
			g.breaker.RecordFailure()
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, &Error{
					Code:      ErrTimeout,
					Message:   res.err.Error(),
					Provider:  string(g.provider.ID()),
					Retryable: true,
				}
			}
			var le *Error
			if errors.As(res.err, &le) {
				return nil, le
			}
			return nil, &Error{
				Code:      ErrAPIError,
				Message:   res.err.Error(),
				Provider:  string(g.provider.ID()),
				Retryable: true,
			}
		}
		g.breaker.RecordSuccess()
		return res.resp, nil
	}
}
