package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RezenkovD/TravelAiApi/config"
)

// PlaceModelClient sends a prompt to a text generation model and returns the
// raw completion. Failures of the call itself surface as *types.ProviderError.
// Implementations never retry.
type PlaceModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name is the provider name used in user facing error messages.
	Name() string
}

// NewPlaceModelClient builds the client selected by cfg.Provider.
func NewPlaceModelClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (PlaceModelClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIClient(OpenAIOptions{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			RequestTimeout: cfg.RequestTimeout,
		}, logger)
	case "gemini":
		return NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.RequestTimeout, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
