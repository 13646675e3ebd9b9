package llm

import (
	"testing"

	"finaily/internal/config"
)

func TestNew_ProviderSelection(t *testing.T) {
	client, err := New(config.LLMConfig{Provider: "anthropic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(*AnthropicClient); !ok {
		t.Fatalf("client=%T want *AnthropicClient", client)
	}
	if client.Model() != defaultAnthropicModel {
		t.Fatalf("model=%s want default", client.Model())
	}

	// Empty provider defaults to anthropic.
	client, err = New(config.LLMConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(*AnthropicClient); !ok {
		t.Fatalf("client=%T want *AnthropicClient", client)
	}

	client, err = New(config.LLMConfig{Provider: "openai", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "gpt-4o" {
		t.Fatalf("model=%s want=gpt-4o", client.Model())
	}

	if _, err := New(config.LLMConfig{Provider: "gemini"}); err == nil {
		t.Fatalf("unknown provider must error")
	}
}

func TestNew_MaxTokensAppliedToBothProviders(t *testing.T) {
	a, err := New(config.LLMConfig{Provider: "anthropic", MaxTokens: 2048})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.(*AnthropicClient).maxTokens; got != 2048 {
		t.Fatalf("anthropic maxTokens=%d want=2048", got)
	}

	o, err := New(config.LLMConfig{Provider: "openai", MaxTokens: 2048})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := o.(*OpenAIClient).maxTokens; got != 2048 {
		t.Fatalf("openai maxTokens=%d want=2048", got)
	}

	// Zero falls back to the same default on both.
	o, err = New(config.LLMConfig{Provider: "openai"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := o.(*OpenAIClient).maxTokens; got != 1024 {
		t.Fatalf("openai default maxTokens=%d want=1024", got)
	}
}

func TestNew_OpenAIDefaultModel(t *testing.T) {
	client, err := New(config.LLMConfig{Provider: "openai"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != defaultOpenAIModel {
		t.Fatalf("model=%s want default", client.Model())
	}
}
