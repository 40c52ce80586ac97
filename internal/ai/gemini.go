package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/coincat/coincat/internal/common"
)

// geminiClient implements the Client interface for Google's Gemini API.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", common.ErrMissingConfig)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	model := client.GenerativeModel(modelName)
	if cfg.Temperature != 0 {
		temp := float32(cfg.Temperature)
		model.Temperature = &temp
	}

	return &geminiClient{client: client, model: model}, nil
}

// Categorize sends a categorization request to Gemini.
func (c *geminiClient) Categorize(ctx context.Context, req CategorizeRequest) (CategorizeResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return CategorizeResponse{}, common.Transient(fmt.Errorf("Gemini API error: %w", err))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return CategorizeResponse{}, common.Permanent(common.ErrNoResult)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return CategorizeResponse{}, common.Permanent(fmt.Errorf("unexpected Gemini response part %T", resp.Candidates[0].Content.Parts[0]))
	}

	return parseResponse(string(text))
}
