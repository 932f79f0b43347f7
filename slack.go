package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slack-go/slack"
)

const digestTopAssociates = 5

// FormatDigest renders the weekly violation digest posted to the report
// channel. Top associates are ordered by violation count descending, name
// ascending on ties, capped at digestTopAssociates.
func FormatDigest(label string, s Summary, narrative string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Safety Violations — %s*\n", label)
	fmt.Fprintf(&b, "Total events: %d | Violations: %d | Non-violations: %d\n", s.Total, s.Violations, s.NonViolations)

	if len(s.PerAssociate) > 0 {
		type assocCount struct {
			name  string
			count int
		}
		top := make([]assocCount, 0, len(s.PerAssociate))
		for name, count := range s.PerAssociate {
			top = append(top, assocCount{name, count})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].count != top[j].count {
				return top[i].count > top[j].count
			}
			return top[i].name < top[j].name
		})
		if len(top) > digestTopAssociates {
			top = top[:digestTopAssociates]
		}
		b.WriteString("Top associates:\n")
		for _, t := range top {
			fmt.Fprintf(&b, "• %s — %d\n", t.name, t.count)
		}
	}

	if narrative != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(narrative))
		b.WriteString("\n")
	}
	return b.String()
}

// PostDigest sends the digest to the configured report channel.
func PostDigest(api *slack.Client, channelID, text string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(text, false))
	return err
}
