package llm

import (
	"context"
	"fmt"
	"strings"

	"finaily/internal/config"
)

// Client is the single capability the summarizer needs from a generative
// backend: given a prompt, return raw text. Providers are interchangeable and
// selected once at startup.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// New builds the configured provider client.
func New(cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic", "":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
