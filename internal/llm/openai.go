package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ramzilbs/radiance/internal/model"
)

// OpenAIProvider talks to the OpenAI Chat Completions API, or to any
// OpenAI-compatible endpoint (Ollama) through a custom base URL.
type OpenAIProvider struct {
	client  *openai.Client
	name    string
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a provider from the LLM configuration.
func NewOpenAIProvider(cfg model.LLMConfig, name string) (*OpenAIProvider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: API key is required", name)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		name:    name,
		model:   mdl,
		timeout: timeout,
	}, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

// Complete performs a single chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens == 0 {
		maxTokens = 500
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write concise, factual notes for CRM data imports.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
