// Package gemini implements the Google Gemini generateContent client.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/llm"
	"github.com/BaSui01/spcassist/llm/providers"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Config configures the Gemini client.
type Config struct {
	providers.BaseConfig `yaml:",inline"`
}

// Provider calls the Gemini API. Authentication uses the x-goog-api-key
// header; the request deadline comes from the caller's context (the
// gateway enforces the hard timeout), so the http.Client itself carries
// none.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New creates a Gemini provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// ID implements llm.Provider.
func (p *Provider) ID() llm.ProviderID { return llm.ProviderGemini }

// ValidateSetup implements llm.Provider. It never touches the network.
func (p *Provider) ValidateSetup() error {
	return providers.ValidateAPIKey(p.cfg.APIKey)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

// Call implements llm.Provider.
func (p *Provider) Call(ctx context.Context, prompt, model string) (*llm.ProviderResponse, error) {
	if model == "" {
		model = p.cfg.Model
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(p.cfg.BaseURL, "/"), model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// Context errors pass through untouched so the gateway can
		// classify timeouts.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &llm.Error{
			Code:      llm.ErrAPIError,
			Message:   err.Error(),
			Provider:  string(p.ID()),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, mapError(resp.StatusCode, readErrMsg(resp.Body), string(p.ID()))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &llm.Error{
			Code:      llm.ErrAPIError,
			Message:   "decode response: " + err.Error(),
			Provider:  string(p.ID()),
			Retryable: true,
		}
	}
	if len(out.Candidates) == 0 {
		return nil, &llm.Error{
			Code:     llm.ErrAPIError,
			Message:  "response contained no candidates",
			Provider: string(p.ID()),
		}
	}

	var text strings.Builder
	for _, pt := range out.Candidates[0].Content.Parts {
		text.WriteString(pt.Text)
	}

	p.logger.Debug("gemini call completed",
		zap.String("model", model),
		zap.String("finish_reason", out.Candidates[0].FinishReason),
	)

	return llm.Structured(llm.StructuredResponse{
		Text:         text.String(),
		Model:        out.ModelVersion,
		FinishReason: out.Candidates[0].FinishReason,
	}), nil
}

// readErrMsg extracts the error message from a Gemini error body, falling
// back to the raw body when the shape is unexpected.
func readErrMsg(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(data))
}

// mapError converts an HTTP failure into the typed error taxonomy.
func mapError(status int, msg, provider string) *llm.Error {
	e := &llm.Error{Message: msg, Provider: provider}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Code = llm.ErrProviderUnavailable
	case status == http.StatusTooManyRequests:
		e.Code = llm.ErrAPIError
		e.Retryable = true
	case status >= 500:
		e.Code = llm.ErrAPIError
		e.Retryable = true
	default:
		e.Code = llm.ErrAPIError
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("gemini returned status %d", status)
	}
	return e
}
