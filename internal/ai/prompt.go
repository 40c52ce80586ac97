package ai

import (
	"fmt"
	"strings"
)

// buildPrompt renders the shared categorization prompt. Providers demand a
// JSON-only reply so parseResponse can stay provider-agnostic.
func buildPrompt(req CategorizeRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Categorize this financial transaction:\n")
	fmt.Fprintf(&sb, "Description: %s\n", req.Description)
	if req.Direction != "" {
		fmt.Fprintf(&sb, "Direction: %s\n", req.Direction)
	}

	if len(req.Categories) > 0 {
		sb.WriteString("\nAssign exactly one of the following categories:\n")
		for _, cat := range req.Categories {
			fmt.Fprintf(&sb, "- %s\n", cat)
		}
	}

	sb.WriteString(`
Respond with ONLY a JSON object in this exact format:
{"category": "<category path>", "merchant_name": "<merchant, if identifiable>", "confidence": <0.0-1.0>, "reasoning": "<one sentence>"}`)

	return sb.String()
}

// cleanMarkdownWrapper strips a markdown code fence some models insist on
// wrapping JSON replies in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
