// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat-completion endpoint.
// The upstream provider is selected purely by BaseURL + key configuration.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete sends the bounded history to the completion endpoint and returns
// the reply text. One request per call; no retry, no timeout beyond the
// transport's own.
func (p *OpenAIProvider) Complete(ctx context.Context, model string, messages []PromptMessage, maxTokens int) (string, error) {
	if model == "" {
		return "", &AIError{Type: ErrTypeValidation, Operation: "completion", Message: "model is required"}
	}
	if len(messages) == 0 {
		return "", &AIError{Type: ErrTypeValidation, Operation: "completion", Message: "message history is empty"}
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   maxTokens,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &AIError{
				Type:      ErrTypeUpstream,
				Code:      apiErr.HTTPStatusCode,
				Operation: "completion",
				Message:   apiErr.Message,
				Model:     model,
				Cause:     err,
			}
		}
		return "", &AIError{
			Type:      ErrTypeNetwork,
			Operation: "completion",
			Message:   "completion request failed",
			Model:     model,
			Cause:     err,
		}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", NewProtocolError("completion", "empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	return nil
}

func (p *OpenAIProvider) GetStatus(ctx context.Context) ProviderStatus {
	return ProviderStatus{
		IsHealthy: true,
		Message:   "completion provider healthy",
	}
}
