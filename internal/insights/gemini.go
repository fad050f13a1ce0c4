// Package insights generates prose financial summaries with the Gemini REST API.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	glang "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("model returned no text")

// GeminiClient calls models.generateContent
type GeminiClient struct {
	svc   *glang.Service
	model string
}

// NewGeminiClient creates a client authenticated with an API key
func NewGeminiClient(ctx context.Context, apiKey, model string, opts ...goption.ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing Gemini API key")
	}

	svc, err := glang.NewService(ctx, append([]goption.ClientOption{goption.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("generativelanguage service: %w", err)
	}

	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &GeminiClient{svc: svc, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the concatenated text of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := &glang.GenerateContentRequest{
		Contents: []*glang.Content{{
			Role:  "user",
			Parts: []*glang.Part{{Text: prompt}},
		}},
	}

	resp, err := c.svc.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return firstCandidateText(resp)
}

func firstCandidateText(resp *glang.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
