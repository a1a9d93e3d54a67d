package generativeAI

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/RezenkovD/TravelAiApi/config"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

const (
	openAIProviderName = "OpenAI"
	DefaultOpenAIModel = openai.GPT3Dot5Turbo1106
)

var _ PlaceModelClient = (*OpenAIClient)(nil)

type OpenAIOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, e.g. for a proxy or a test server.
	BaseURL        string
	RequestTimeout time.Duration
}

// OpenAIClient calls the chat completions API with a single user message.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIClient(opts OpenAIOptions, logger *slog.Logger) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultLLMRequestTimeout
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Name() string { return openAIProviderName }

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("OpenAIClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", "openai"),
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.WarnContext(ctx, "OpenAI chat completion failed",
			slog.String("model", c.model),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		return "", &types.ProviderError{Provider: openAIProviderName, Err: err}
	}
	if len(resp.Choices) == 0 {
		err = errors.New("response contained no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty completion")
		return "", &types.ProviderError{Provider: openAIProviderName, Err: err}
	}

	c.logger.DebugContext(ctx, "OpenAI chat completion received",
		slog.String("model", resp.Model),
		slog.Int("total_tokens", resp.Usage.TotalTokens),
		slog.Duration("latency", time.Since(start)))
	span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))
	span.SetStatus(codes.Ok, "")
	return resp.Choices[0].Message.Content, nil
}
