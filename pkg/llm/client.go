package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGenerationDisabled = errors.New("text generation is disabled")
	ErrEmptyResponse      = errors.New("model returned no content")
)

// Prompt is a single-turn generation request.
type Prompt struct {
	System    string
	User      string
	JSON      bool
	MaxTokens int
}

// Client generates text from a prompt. Implementations must honour ctx
// cancellation.
type Client interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// StaticClient never calls out; every request fails so callers use their
// fallback copy.
type StaticClient struct{}

func (StaticClient) Generate(context.Context, Prompt) (string, error) {
	return "", ErrGenerationDisabled
}

// NewClient picks a provider by name. An empty provider yields a StaticClient.
func NewClient(provider, apiKey, model string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		c, err := NewGeminiClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "", "static", "none":
		return StaticClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
