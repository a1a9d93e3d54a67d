package generativeAI

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/RezenkovD/TravelAiApi/config"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

const (
	geminiProviderName = "Gemini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

var _ PlaceModelClient = (*GeminiClient)(nil)

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = config.DefaultLLMRequestTimeout
	}
	return &GeminiClient{client: client, model: model, timeout: timeout, logger: logger}, nil
}

func (c *GeminiClient) Name() string { return geminiProviderName }

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GeminiClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", "gemini"),
		attribute.String("llm.model", c.model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Gemini generate content failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", &types.ProviderError{Provider: geminiProviderName, Err: err}
	}

	span.SetStatus(codes.Ok, "")
	return result.Text(), nil
}
