// Package llm generates optional import notes for the exported roster.
// Disabled by default; it never influences extraction, merging or
// filtering.
package llm

import (
	"context"
	"fmt"

	"github.com/ramzilbs/radiance/internal/model"
)

// Provider is an LLM backend able to produce a short text completion.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete returns the completion for the given prompt.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// BuildPrompt constructs the summarization prompt from the run report.
// Only aggregate numbers are sent; client names and phone numbers stay
// local.
func BuildPrompt(report *model.Report) string {
	s := report.Stats
	prompt := fmt.Sprintf(`You are writing short import notes for a CRM contact import.

A batch of salon agenda documents was processed:
- Documents read: %d (%d skipped with errors)
- Raw client entries extracted: %d
- Merged into %d distinct clients
- %d loyal clients retained (at least %d visits)
- %d of the retained clients have a phone number
- Parse warnings: %d

Write 3-4 plain sentences for the person importing the contacts: data
quality, how aggressive the merge was, and what to double-check by hand.
Do not invent client names or numbers not given above.`,
		report.Documents, report.DocumentsBad,
		report.RawRecords,
		s.MergedClients,
		s.LoyalClients, report.Config.MinVisits,
		s.WithPhone,
		len(report.Warnings),
	)
	return prompt
}
