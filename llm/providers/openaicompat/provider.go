// Package openaicompat implements a client for any OpenAI-compatible
// chat-completions endpoint (OpenAI itself, local inference servers,
// gateway proxies).
package openaicompat

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

const defaultBaseURL = "https://api.openai.com"

// Config configures the client.
type Config struct {
	providers.BaseConfig `yaml:",inline"`
	Organization         string `json:"organization,omitempty" yaml:"organization,omitempty"`
}

// Provider calls a chat-completions API with Bearer authentication. The
// hard deadline comes from the caller's context.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New creates the provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, client: &http.Client{}, logger: logger}
}

// ID implements llm.Provider.
func (p *Provider) ID() llm.ProviderID { return llm.ProviderOpenAICompat }

// ValidateSetup implements llm.Provider.
func (p *Provider) ValidateSetup() error {
	return providers.ValidateAPIKey(p.cfg.APIKey)
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Call implements llm.Provider.
func (p *Provider) Call(ctx context.Context, prompt, model string) (*llm.ProviderResponse, error) {
	if model == "" {
		model = p.cfg.Model
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if p.cfg.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", p.cfg.Organization)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
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
		msg := readErrMsg(resp.Body)
		e := &llm.Error{Code: llm.ErrAPIError, Message: msg, Provider: string(p.ID())}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			e.Code = llm.ErrProviderUnavailable
		case http.StatusTooManyRequests:
			e.Retryable = true
		default:
			e.Retryable = resp.StatusCode >= 500
		}
		if e.Message == "" {
			e.Message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return nil, e
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &llm.Error{
			Code:      llm.ErrAPIError,
			Message:   "decode response: " + err.Error(),
			Provider:  string(p.ID()),
			Retryable: true,
		}
	}
	if len(out.Choices) == 0 {
		return nil, &llm.Error{
			Code:     llm.ErrAPIError,
			Message:  "response contained no choices",
			Provider: string(p.ID()),
		}
	}

	p.logger.Debug("chat completion finished",
		zap.String("model", model),
		zap.String("finish_reason", out.Choices[0].FinishReason),
	)

	return llm.Structured(llm.StructuredResponse{
		Text:         out.Choices[0].Message.Content,
		Model:        out.Model,
		FinishReason: out.Choices[0].FinishReason,
	}), nil
}

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
