// File: internal/services/ai/interface.go
package ai

import "context"

// PromptMessage is one role/content pair of the bounded history sent to the
// completion endpoint. Provider-specific field names stay inside the provider.
type PromptMessage struct {
	Role    string
	Content string
}

// ProviderStatus represents the health status of the completion provider.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// Provider is the pluggable completion adapter. Complete makes exactly one
// outbound call per invocation; retrying is the caller's decision.
type Provider interface {
	Complete(ctx context.Context, model string, messages []PromptMessage, maxTokens int) (string, error)
	HealthCheck(ctx context.Context) error
}
