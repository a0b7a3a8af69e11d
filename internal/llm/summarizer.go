package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramzilbs/radiance/internal/model"
)

// Summarizer produces import notes from a run report.
type Summarizer struct {
	provider  Provider
	maxTokens int
}

// NewSummarizer creates a summarizer for the configured provider.
/// Supported: "openai", "ollama" (OpenAI-compatible endpoint).
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	var (
		provider Provider
		err      error
	)

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		provider, err = NewOpenAIProvider(cfg, "openai")
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama" // endpoint ignores it, client requires one
		}
		provider, err = NewOpenAIProvider(cfg, "ollama")
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &Summarizer{provider: provider, maxTokens: cfg.MaxTokens}, nil
}

// Summarize generates the import notes for the report.
func (s *Summarizer) Summarize(ctx context.Context, report *model.Report) (string, error) {
	return s.provider.Complete(ctx, BuildPrompt(report), s.maxTokens)
}
