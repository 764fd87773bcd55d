package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/config"
	"github.com/BaSui01/spcassist/llm/cache"
	"github.com/BaSui01/spcassist/llm/circuitbreaker"
	"github.com/BaSui01/spcassist/llm/observability"
	"github.com/BaSui01/spcassist/llm/sanitize"
	"github.com/BaSui01/spcassist/rag"
)

// ChatOptions tunes one call. Zero fields fall back to the client's
// settings; explicit values beat stored and environment configuration.
type ChatOptions struct {
	// Provider selects the backend. Empty uses the configured default.
	Provider ProviderID

	// Model overrides the configured model identifier.
	Model string

	// Timeout overrides the configured hard deadline.
	Timeout time.Duration

	// MaxResponseChars overrides the configured response length bound.
	MaxResponseChars int

	// Cache, when non-nil, enables response caching for this call. There
	// is no implicit default cache.
	Cache *cache.Cache

	// KeyFields are extra named values folded into the cache key beyond
	// prompt, model and provider (e.g. chart metadata for SPC
	// suggestions). Volatile values must not be put here.
	KeyFields map[string]any

	// SkipValidation disables response sanitization. Validation is on by
	// default.
	SkipValidation bool
}

// Client is the orchestrated entry point every feature funnels through:
// cache lookup, breaker-guarded gateway call, sanitization, cache store.
//
// A Client is explicitly constructed and threaded through calls; there are
// no package-level singletons, so two clients never share breaker or cache
// state.
type Client struct {
	settings config.Settings
	registry *Registry
	gateways map[ProviderID]*Gateway
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewClient builds a client over the registry. One circuit breaker is
// created per registered provider from the breaker settings; when metrics
// is non-nil each breaker is exported as an observable gauge.
func NewClient(settings config.Settings, registry *Registry, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	gateways := make(map[ProviderID]*Gateway, len(registry.List()))
	for _, id := range registry.List() {
		p, _ := registry.Get(id)
		breaker := circuitbreaker.New(&circuitbreaker.Config{
			FailureThreshold: settings.Breaker.FailureThreshold,
			ResetTimeout:     time.Duration(settings.Breaker.ResetTimeoutSeconds) * time.Second,
		}, logger.Named("breaker."+string(id)))
		if err := metrics.ObserveBreaker(string(id), breaker); err != nil {
			logger.Warn("breaker gauge registration failed",
				zap.String("provider", string(id)), zap.Error(err))
		}
		gateways[id] = NewGateway(p, breaker, logger)
	}

	return &Client{
		settings: settings,
		registry: registry,
		gateways: gateways,
		metrics:  metrics,
		logger:   logger,
	}
}

// Breaker exposes the breaker guarding the given provider, for status
// probes and administrative resets. Nil when the provider is unknown.
func (c *Client) Breaker(id ProviderID) *circuitbreaker.Breaker {
	gw, ok := c.gateways[id]
	if !ok {
		return nil
	}
	return gw.Breaker()
}

// Chat runs the full call path and returns the sanitized response text.
//
// Step order is fixed: an empty prompt fails locally before anything else;
// a cache hit returns without touching breaker or network; provider setup
// is verified before the gateway call; sanitizer rejection reports
// ErrValidationFailed without feeding the breaker and without caching.
func (c *Client) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &Error{Code: ErrInvalidInput, Message: "prompt must not be empty"}
	}

	id := opts.Provider
	if id == "" {
		id = ProviderID(c.settings.Provider)
	}
	model := opts.Model
	if model == "" {
		model = c.settings.Model
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Duration(c.settings.TimeoutSeconds) * time.Second
	}
	maxChars := opts.MaxResponseChars
	if maxChars <= 0 {
		maxChars = c.settings.MaxResponseChars
	}

	var key string
	if opts.Cache != nil {
		bag := map[string]any{
			"prompt":   prompt,
			"model":    model,
			"provider": string(id),
		}
		for name, value := range opts.KeyFields {
			bag[name] = value
		}
		key = cache.GenerateKey(bag)

		if cached, ok := opts.Cache.Get(key); ok {
			c.metrics.RecordCacheHit(ctx, string(id))
			c.logger.Debug("cache hit", zap.String("key", key))
			return cached, nil
		}
		c.metrics.RecordCacheMiss(ctx, string(id))
	}

	gw, ok := c.gateways[id]
	if !ok {
		return "", &Error{
			Code:     ErrProviderUnavailable,
			Message:  "provider " + string(id) + " not registered",
			Provider: string(id),
		}
	}
	if err := gw.Provider().ValidateSetup(); err != nil {
		return "", &Error{
			Code:     ErrProviderUnavailable,
			Message:  err.Error(),
			Provider: string(id),
		}
	}

	start := time.Now()
	resp, err := gw.Call(ctx, prompt, model, timeout)
	c.metrics.RecordRequest(ctx, string(id), model, time.Since(start), string(CodeOf(err)))
	if err != nil {
		return "", err
	}

	text, err := ExtractText(resp)
	if err != nil {
		return "", err
	}

	if !opts.SkipValidation {
		cleaned, ok := sanitize.Validate(text, maxChars)
		if !ok {
			// The network call succeeded; the content was unusable. The
			// breaker stays untouched and nothing is cached.
			return "", &Error{
				Code:     ErrValidationFailed,
				Message:  "provider response empty or invalid after sanitization",
				Provider: string(id),
			}
		}
		text = cleaned
	}

	if opts.Cache != nil && key != "" {
		opts.Cache.Set(key, text)
	}
	return text, nil
}

// ChatWithContext augments the prompt with retrieved reference material
// before running Chat. Retrieval failures are swallowed: the call proceeds
// with the bare prompt.
func (c *Client) ChatWithContext(ctx context.Context, prompt string, retriever rag.Retriever, topK int, method rag.Method, opts ChatOptions) (string, error) {
	rows := rag.QuerySafe(ctx, retriever, prompt, topK, method, c.logger)
	if block := rag.FormatContext(rows); block != "" {
		prompt = block + "\n" + prompt
	}
	return c.Chat(ctx, prompt, opts)
}
