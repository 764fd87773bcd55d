package llm

import (
	"context"
	"fmt"
)

// ProviderID identifies a configured provider implementation. IDs are typed
// constants resolved through [Registry]; there is no stringly-typed dispatch.
type ProviderID string

const (
	// ProviderGemini is the Google Gemini generateContent API.
	ProviderGemini ProviderID = "gemini"
	// ProviderOpenAICompat is any OpenAI-compatible chat-completions API.
	ProviderOpenAICompat ProviderID = "openai"
)

// ResponseKind tags the shape of a provider response.
type ResponseKind int

const (
	// ResponsePlainText is a bare string response.
	ResponsePlainText ResponseKind = iota
	// ResponseStructured is an object carrying a text field plus metadata.
	ResponseStructured
)

func (k ResponseKind) String() string {
	switch k {
	case ResponsePlainText:
		return "PlainText"
	case ResponseStructured:
		return "Structured"
	default:
		return "Unknown"
	}
}

// ProviderResponse is the tagged union a provider call produces. Exactly one
// of Plain/Structured is meaningful, selected by Kind.
type ProviderResponse struct {
	Kind       ResponseKind
	Plain      string
	Structured *StructuredResponse
}

// StructuredResponse is the object-shaped provider response.
type StructuredResponse struct {
	Text         string
	Model        string
	FinishReason string
}

// PlainText wraps a bare string response.
func PlainText(s string) *ProviderResponse {
	return &ProviderResponse{Kind: ResponsePlainText, Plain: s}
}

// Structured wraps an object-shaped response.
func Structured(sr StructuredResponse) *ProviderResponse {
	return &ProviderResponse{Kind: ResponseStructured, Structured: &sr}
}

// ExtractText pulls the text payload out of a provider response. It matches
// the union exhaustively and fails explicitly on an unrecognized shape
// rather than panicking downstream.
func ExtractText(resp *ProviderResponse) (string, error) {
	if resp == nil {
		return "", &Error{Code: ErrAPIError, Message: "nil provider response"}
	}
	switch resp.Kind {
	case ResponsePlainText:
		return resp.Plain, nil
	case ResponseStructured:
		if resp.Structured == nil {
			return "", &Error{Code: ErrAPIError, Message: "structured response missing body"}
		}
		return resp.Structured.Text, nil
	default:
		return "", &Error{
			Code:    ErrAPIError,
			Message: fmt.Sprintf("unrecognized response shape %v", resp.Kind),
		}
	}
}

// Provider is the capability set an external text-generation backend must
// offer. Implementations live under llm/providers.
type Provider interface {
	// ID returns the typed identifier this provider registers under.
	ID() ProviderID

	// ValidateSetup reports whether the provider is usable (credentials
	// present and not a placeholder). It must not touch the network.
	ValidateSetup() error

	// Call issues one generation request. The context carries the hard
	// deadline enforced by the gateway.
	Call(ctx context.Context, prompt, model string) (*ProviderResponse, error)
}
