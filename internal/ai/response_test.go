package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coincat/coincat/internal/common"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    CategorizeResponse
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"category": "Dining", "merchant_name": "Starbucks", "confidence": 0.92, "reasoning": "coffee chain"}`,
			want:    CategorizeResponse{Category: "Dining", MerchantName: "Starbucks", Confidence: 0.92, Reasoning: "coffee chain"},
		},
		{
			name:    "markdown fenced json",
			content: "```json\n{\"category\": \"Transport\", \"confidence\": 0.7}\n```",
			want:    CategorizeResponse{Category: "Transport", Confidence: 0.7},
		},
		{
			name:    "confidence clamped high",
			content: `{"category": "Shopping", "confidence": 1.4}`,
			want:    CategorizeResponse{Category: "Shopping", Confidence: 1},
		},
		{
			name:    "confidence clamped low",
			content: `{"category": "Shopping", "confidence": -0.2}`,
			want:    CategorizeResponse{Category: "Shopping", Confidence: 0},
		},
		{
			name:    "not json",
			content: "I think this is a grocery store.",
			wantErr: true,
		},
		{
			name:    "empty category",
			content: `{"category": "", "confidence": 0.9}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				// Malformed replies must not be retried.
				var retryable *common.RetryableError
				require.ErrorAs(t, err, &retryable)
				assert.False(t, retryable.Retryable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(CategorizeRequest{
		Description: "sprouts market",
		Direction:   "debit",
		Categories:  []string{"Groceries", "Dining"},
	})

	assert.Contains(t, prompt, "sprouts market")
	assert.Contains(t, prompt, "Direction: debit")
	assert.Contains(t, prompt, "- Groceries")
	assert.Contains(t, prompt, "- Dining")
	assert.Contains(t, prompt, "JSON object")
}

func TestCleanMarkdownWrapper(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper(`{"a":1}`))
}
