// Package spcassist provides a top-level convenience entry point for
// assembling the suggestion layer with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/spcassist"
//
//	settings := config.Defaults()
//	client, err := spcassist.New(settings, logger,
//	    gemini.New(gemini.Config{BaseConfig: providers.BaseConfig{APIKey: key}}, logger),
//	)
//	responseCache := spcassist.NewCache(settings, logger)
//
// This is a thin wrapper around [llm.NewClient]; use the llm package
// directly when you need metrics or custom wiring.
package spcassist

import (
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/config"
	"github.com/BaSui01/spcassist/llm"
	"github.com/BaSui01/spcassist/llm/cache"
	"github.com/BaSui01/spcassist/llm/observability"
)

// New validates settings and assembles a client over the given providers,
// one circuit breaker per provider. Invalid settings are a configuration
// contract violation and fail here, before any call is made.
func New(settings config.Settings, logger *zap.Logger, providers ...llm.Provider) (*llm.Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return llm.NewClient(settings, llm.NewRegistry(providers...), nil, logger), nil
}

// NewWithMetrics is New plus an OpenTelemetry metrics collector wired
// through the call path.
func NewWithMetrics(settings config.Settings, logger *zap.Logger, providers ...llm.Provider) (*llm.Client, *observability.Metrics, error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}
	metrics, err := observability.NewMetrics()
	if err != nil {
		return nil, nil, err
	}
	client := llm.NewClient(settings, llm.NewRegistry(providers...), metrics, logger)
	return client, metrics, nil
}

// NewCache creates a process-scoped response cache with the configured
// TTL. The caller owns the instance and threads it through calls; nothing
// is cached without one.
func NewCache(settings config.Settings, logger *zap.Logger) *cache.Cache {
	return cache.New(time.Duration(settings.CacheTTLSeconds)*time.Second, logger)
}
