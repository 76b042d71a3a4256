package generation

import (
	"context"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// ClientConfig selects and configures a TextGenerator.
type ClientConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float32
}

// NewTextGenerator creates the client for cfg.Provider. An empty provider
// means ProviderGemini.
func NewTextGenerator(ctx context.Context, cfg ClientConfig) (TextGenerator, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, model, cfg.Temperature)
	case ProviderGenAI:
		return NewGenAIClient(ctx, cfg.APIKey, model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Provider)
	}
}
