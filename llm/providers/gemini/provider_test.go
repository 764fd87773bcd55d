package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/llm"
	"github.com/BaSui01/spcassist/llm/providers"
)

func TestProvider_ID(t *testing.T) {
	p := New(Config{}, zap.NewNop())
	assert.Equal(t, llm.ProviderGemini, p.ID())
}

func TestProvider_ValidateSetup(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"real key", "AIzaSyTest123", false},
		{"empty key", "", true},
		{"whitespace key", "   ", true},
		{"placeholder", "your-api-key", true},
		{"placeholder upper", "CHANGEME", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Config{BaseConfig: providers.BaseConfig{APIKey: tt.key}}, zap.NewNop())
			err := p.ValidateSetup()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProvider_Call_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{{"text": "The process "}, {"text": "is stable."}}},
				"finishReason": "STOP",
			}},
			"modelVersion": "gemini-2.0-flash-001",
		})
	}))
	defer srv.Close()

	p := New(Config{BaseConfig: providers.BaseConfig{APIKey: "test-key", BaseURL: srv.URL}}, zap.NewNop())

	resp, err := p.Call(context.Background(), "hello", "gemini-2.0-flash")
	require.NoError(t, err)
	require.Equal(t, llm.ResponseStructured, resp.Kind)
	assert.Equal(t, "The process is stable.", resp.Structured.Text)
	assert.Equal(t, "STOP", resp.Structured.FinishReason)
}

func TestProvider_Call_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantCode      llm.ErrorCode
		wantRetryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, llm.ErrProviderUnavailable, false},
		{"forbidden", http.StatusForbidden, llm.ErrProviderUnavailable, false},
		{"rate limited", http.StatusTooManyRequests, llm.ErrAPIError, true},
		{"server error", http.StatusInternalServerError, llm.ErrAPIError, true},
		{"bad request", http.StatusBadRequest, llm.ErrAPIError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "upstream says no"},
				})
			}))
			defer srv.Close()

			p := New(Config{BaseConfig: providers.BaseConfig{APIKey: "k", BaseURL: srv.URL}}, zap.NewNop())
			_, err := p.Call(context.Background(), "prompt", "m")
			require.Error(t, err)

			assert.Equal(t, tt.wantCode, llm.CodeOf(err))
			var le *llm.Error
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantRetryable, le.Retryable)
			assert.Equal(t, "upstream says no", le.Message)
		})
	}
}

func TestProvider_Call_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	p := New(Config{BaseConfig: providers.BaseConfig{APIKey: "k", BaseURL: srv.URL}}, zap.NewNop())
	_, err := p.Call(context.Background(), "prompt", "m")
	assert.Equal(t, llm.ErrAPIError, llm.CodeOf(err))
}

func TestProvider_Call_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := New(Config{BaseConfig: providers.BaseConfig{APIKey: "k", BaseURL: srv.URL}}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Call(ctx, "prompt", "m")
	assert.ErrorIs(t, err, context.Canceled)
}
