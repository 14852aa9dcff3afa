// Package models contains shared data models used across the jobtracker codebase.
package models

import "context"

// ChatProvider is the interface every remote language-model integration implements.
// Callers depend on this interface, never on a provider SDK.
type ChatProvider interface {
	// Complete sends one system+user exchange and returns the raw reply text.
	// Failures carrying an HTTP status must be returned as *ProviderError.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name returns the provider identifier (e.g., "xai", "openai", "gemini").
	Name() string
}

// CompletionRequest is a single chat-completion exchange.
type CompletionRequest struct {
	System string
	User   string
	// JSONMode asks the provider to constrain its reply to a JSON object.
	JSONMode    bool
	Temperature float64
	MaxTokens   int
}
