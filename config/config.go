// Package config holds the runtime settings the hosting application
// threads into the call layer.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, the
// SPCASSIST_* environment variables, explicit per-call options. Environment
// overrides exist so deployments can swap the model or tighten the timeout
// without editing stored configuration, but they never beat an explicit
// per-call argument.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load and ApplyEnv.
const (
	EnvModel          = "SPCASSIST_MODEL"
	EnvTimeoutSeconds = "SPCASSIST_TIMEOUT_SECONDS"
)

// BreakerSettings tunes the per-provider circuit breaker.
type BreakerSettings struct {
	FailureThreshold    int `yaml:"failure_threshold"`
	ResetTimeoutSeconds int `yaml:"reset_timeout_seconds"`
}

// Settings is the full configuration surface. All fields are read at call
// time and overridable per call.
type Settings struct {
	Provider         string          `yaml:"provider"`
	Model            string          `yaml:"model"`
	TimeoutSeconds   int             `yaml:"timeout_seconds"`
	MaxResponseChars int             `yaml:"max_response_chars"`
	CacheTTLSeconds  int             `yaml:"cache_ttl_seconds"`
	Breaker          BreakerSettings `yaml:"breaker"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		TimeoutSeconds:   30,
		MaxResponseChars: 500,
		CacheTTLSeconds:  3600,
		Breaker: BreakerSettings{
			FailureThreshold:    5,
			ResetTimeoutSeconds: 300,
		},
	}
}

// Load reads settings from the YAML file at path, layered over Defaults and
// under the environment overrides. An empty path skips the file step.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	s.ApplyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ApplyEnv overlays the recognized environment variables onto s. A
// malformed timeout value is ignored rather than fatal.
func (s *Settings) ApplyEnv() {
	if model := os.Getenv(EnvModel); model != "" {
		s.Model = model
	}
	if raw := os.Getenv(EnvTimeoutSeconds); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			s.TimeoutSeconds = secs
		}
	}
}

// Validate rejects malformed configuration. Passing invalid settings is a
// programming-contract violation of the embedding application, so callers
// are expected to treat this error as fatal.
func (s *Settings) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("config: provider must not be empty")
	}
	if s.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", s.TimeoutSeconds)
	}
	if s.MaxResponseChars <= 0 {
		return fmt.Errorf("config: max_response_chars must be positive, got %d", s.MaxResponseChars)
	}
	if s.CacheTTLSeconds <= 0 {
		return fmt.Errorf("config: cache_ttl_seconds must be positive, got %d", s.CacheTTLSeconds)
	}
	if s.Breaker.FailureThreshold <= 0 {
		return fmt.Errorf("config: breaker.failure_threshold must be positive, got %d", s.Breaker.FailureThreshold)
	}
	if s.Breaker.ResetTimeoutSeconds <= 0 {
		return fmt.Errorf("config: breaker.reset_timeout_seconds must be positive, got %d", s.Breaker.ResetTimeoutSeconds)
	}
	return nil
}
