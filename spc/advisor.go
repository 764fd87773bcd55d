package spc

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/llm"
)

// Advisor produces natural-language suggestions from chart metadata by
// driving the orchestrated call path.
type Advisor struct {
	client *llm.Client
	logger *zap.Logger
}

// NewAdvisor wraps the given client.
func NewAdvisor(client *llm.Client, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{client: client, logger: logger}
}

// Suggest generates one suggestion for the request. The cache key (when
// opts.Cache is set) covers the full request bag — chart metadata, user
// context and length bounds — so changing any of them produces a fresh
// call. A malformed request fails locally with ErrInvalidInput.
func (a *Advisor) Suggest(ctx context.Context, req SuggestionRequest, opts llm.ChatOptions) (string, error) {
	if err := req.Validate(); err != nil {
		return "", &llm.Error{Code: llm.ErrInvalidInput, Message: err.Error()}
	}

	fields := req.KeyFields()
	for name, value := range opts.KeyFields {
		fields[name] = value
	}
	opts.KeyFields = fields

	if opts.MaxResponseChars <= 0 && req.MaxChars > 0 {
		opts.MaxResponseChars = req.MaxChars
	}

	a.logger.Debug("requesting suggestion",
		zap.String("chart_type", string(req.ChartType)),
		zap.String("process", req.Process),
		zap.Int("violations", len(req.Violations)),
	)
	return a.client.Chat(ctx, req.Prompt(), opts)
}
