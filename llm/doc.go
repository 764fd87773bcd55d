/*
Package llm implements the resilience layer placed in front of generative-text
providers: a single orchestrated call path that consults a response cache,
guards the outbound call with a circuit breaker, sanitizes provider output and
writes successful results back to the cache.

# Call path

Every feature (plain chat, retrieval-enhanced chat, SPC suggestions) funnels
through [Client.Chat]:

	validate prompt -> cache get -> provider setup check -> gateway call
	    -> extract text -> sanitize -> cache set

The gateway consults the provider's circuit breaker before any network
activity and feeds call outcomes back into it. A cache hit returns without
touching the breaker or the network.

# Errors

All failures surface as a typed [*Error] carrying a machine-readable
[ErrorCode]; callers are expected to switch on the code rather than on
message text. The distinction between "no API key", "timeout", "breaker
open" and "bad response" is never collapsed.

# Usage

	reg := llm.NewRegistry(
	    gemini.New(gemini.Config{APIKey: key}, logger),
	)
	client := llm.NewClient(config.Defaults(), reg, nil, logger)
	text, err := client.Chat(ctx, "Explain this control chart", llm.ChatOptions{
	    Provider: llm.ProviderGemini,
	    Cache:    responseCache,
	})
*/
package llm
