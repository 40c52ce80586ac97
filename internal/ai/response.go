package ai

import (
	"encoding/json"
	"fmt"

	"github.com/coincat/coincat/internal/common"
)

// parseResponse decodes the JSON object providers are instructed to return.
// A reply that cannot be decoded is a permanent failure: retrying the same
// call would only burn quota on the same malformed answer.
func parseResponse(content string) (CategorizeResponse, error) {
	var decoded struct {
		Category     string  `json:"category"`
		MerchantName string  `json:"merchant_name"`
		Reasoning    string  `json:"reasoning"`
		Confidence   float64 `json:"confidence"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return CategorizeResponse{}, common.Permanent(fmt.Errorf("malformed categorization response: %w", err))
	}

	if decoded.Category == "" {
		return CategorizeResponse{}, common.Permanent(common.ErrNoResult)
	}

	if decoded.Confidence < 0 {
		decoded.Confidence = 0
	}
	if decoded.Confidence > 1 {
		decoded.Confidence = 1
	}

	return CategorizeResponse{
		Category:     decoded.Category,
		MerchantName: decoded.MerchantName,
		Confidence:   decoded.Confidence,
		Reasoning:    decoded.Reasoning,
	}, nil
}
