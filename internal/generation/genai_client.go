package generation

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient generates text through the google.golang.org/genai SDK.
type GenAIClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenAIClient creates a client for the Gemini API backend.
func NewGenAIClient(ctx context.Context, apiKey, model string, temperature float32) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAIClient{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(temperature),
			ResponseMIMEType: "application/json",
		},
	}, nil
}

// GenerateText sends prompt and returns the response text.
func (c *GenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
