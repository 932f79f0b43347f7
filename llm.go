package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

type LLMUsage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

const narrativeSystemPrompt = `You write one short paragraph summarizing a week of delivery safety review data for an operations channel. Be factual and neutral: state the violation volume, name the associates and metric types carrying the most violations, and note anything unusual in the numbers. No advice, no speculation, no formatting beyond plain sentences.`

// GenerateNarrative asks the model for a one-paragraph summary of a week's
// numbers for the digest. Callers treat a failure as "no narrative"; the
// digest posts fine without it.
func GenerateNarrative(cfg Config, label string, s Summary) (string, LLMUsage, error) {
	if !cfg.LLMConfigured() {
		return "", LLMUsage{}, nil
	}

	userPrompt := buildNarrativePrompt(label, s)
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.LLMModel),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: narrativeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm narrative error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := LLMUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm narrative size=%d tokens_in=%d tokens_out=%d", len(block.Text), usage.InputTokens, usage.OutputTokens)
			return strings.TrimSpace(block.Text), usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

func buildNarrativePrompt(label string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week: %s\n", label)
	fmt.Fprintf(&b, "Total review events: %d\n", s.Total)
	fmt.Fprintf(&b, "Violations: %d\n", s.Violations)
	fmt.Fprintf(&b, "Non-violations: %d\n", s.NonViolations)

	b.WriteString("Violations by associate:\n")
	for _, name := range sortedKeys(s.PerAssociate) {
		fmt.Fprintf(&b, "- %s: %d\n", name, s.PerAssociate[name])
	}
	b.WriteString("Violations by metric type:\n")
	for _, name := range sortedKeys(s.PerMetricType) {
		fmt.Fprintf(&b, "- %s: %d\n", name, s.PerMetricType[name])
	}
	return b.String()
}

// sortedKeys gives the deterministic key order used everywhere a summary map
// is displayed.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
