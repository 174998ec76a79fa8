package chat

import (
	"context"
	"fmt"
	"strings"

	"aspire/pkg/llm"
)

const (
	// summaryInputCap bounds each input fed to the summariser so a single
	// long message cannot blow out the prompt.
	summaryInputCap = 800

	DefaultSummaryMaxChars = 1200
)

const summaryPrompt = `You maintain a rolling summary of a customer service conversation for a local council. Update the summary to fold in the latest exchange. Keep resident details, open requests and commitments. Write plain prose, no markdown, at most a short paragraph.`

// UpdateRollingSummary produces the next rolling summary from the previous
// one plus the latest user/assistant exchange. The result is flattened to a
// single line and hard-truncated to maxChars runes.
func UpdateRollingSummary(ctx context.Context, provider llm.Provider, model, previous, userMessage, assistantMessage string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultSummaryMaxChars
	}
	prev := flatten(previous, summaryInputCap)
	if prev == "" {
		prev = "(none)"
	}

	prompt := fmt.Sprintf(
		"Previous summary: %s\n\nUser: %s\n\nAssistant: %s\n\nUpdated summary:",
		prev,
		flatten(userMessage, summaryInputCap),
		flatten(assistantMessage, summaryInputCap),
	)

	completion, err := provider.Complete(ctx, llm.Request{
		Model: model,
		Messages: []llm.Message{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   400,
	})
	if err != nil {
		return "", fmt.Errorf("summarize conversation: %w", err)
	}

	return truncateRunes(flatten(completion.Content, 0), maxChars), nil
}

// flatten collapses all whitespace runs to single spaces and optionally caps
// the result at max runes.
func flatten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max > 0 {
		s = truncateRunes(s, max)
	}
	return s
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
