package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "gemini", s.Provider)
	assert.Equal(t, 30, s.TimeoutSeconds)
	assert.Equal(t, 500, s.MaxResponseChars)
	assert.Equal(t, 3600, s.CacheTTLSeconds)
	assert.Equal(t, 5, s.Breaker.FailureThreshold)
	assert.Equal(t, 300, s.Breaker.ResetTimeoutSeconds)
	assert.NoError(t, s.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spcassist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gemini-2.0-pro
timeout_seconds: 10
breaker:
  failure_threshold: 3
  reset_timeout_seconds: 60
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-pro", s.Model)
	assert.Equal(t, 10, s.TimeoutSeconds)
	assert.Equal(t, 3, s.Breaker.FailureThreshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, "gemini", s.Provider)
	assert.Equal(t, 500, s.MaxResponseChars)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spcassist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\ntimeout_seconds: 10\n"), 0o644))

	t.Setenv(EnvModel, "from-env")
	t.Setenv(EnvTimeoutSeconds, "7")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.Model)
	assert.Equal(t, 7, s.TimeoutSeconds)
}

func TestApplyEnv_IgnoresMalformedTimeout(t *testing.T) {
	t.Setenv(EnvTimeoutSeconds, "not-a-number")

	s := Defaults()
	s.ApplyEnv()
	assert.Equal(t, 30, s.TimeoutSeconds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsMalformedSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty provider", func(s *Settings) { s.Provider = "" }},
		{"empty model", func(s *Settings) { s.Model = "" }},
		{"zero timeout", func(s *Settings) { s.TimeoutSeconds = 0 }},
		{"negative max chars", func(s *Settings) { s.MaxResponseChars = -1 }},
		{"zero cache ttl", func(s *Settings) { s.CacheTTLSeconds = 0 }},
		{"zero threshold", func(s *Settings) { s.Breaker.FailureThreshold = 0 }},
		{"zero reset timeout", func(s *Settings) { s.Breaker.ResetTimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
