package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/phrazzld/ankigen/internal/config"
	"github.com/phrazzld/ankigen/internal/generation"
)

// Generator implements generation.Generator using OpenAI chat completions.
type Generator struct {
	logger *slog.Logger
	client openaisdk.Client
	config config.LLMConfig
	prompt *generation.Prompt
	retry  generation.RetryPolicy

	requestOptions []option.RequestOption
}

var _ generation.Generator = (*Generator)(nil)

// Option customises a Generator.
type Option func(*Generator)

// WithRetryPolicy replaces the retry policy derived from the configuration.
func WithRetryPolicy(policy generation.RetryPolicy) Option {
	return func(g *Generator) {
		g.retry = policy
	}
}

// WithPrompt replaces the built-in card prompt.
func WithPrompt(prompt *generation.Prompt) Option {
	return func(g *Generator) {
		if prompt != nil {
			g.prompt = prompt
		}
	}
}

// WithRequestOptions appends client options, e.g. a custom HTTP client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(g *Generator) {
		g.requestOptions = append(g.requestOptions, opts...)
	}
}

// NewGenerator creates a Generator for the configured model.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	g := &Generator{
		logger: logger.With("component", "openai_generator", "model", cfg.ModelName),
		config: cfg,
		prompt: generation.DefaultPrompt(),
		retry:  generation.NewRetryPolicy(cfg),
	}
	for _, opt := range opts {
		opt(g)
	}

	// Retries are owned by the retry policy, so the SDK's are disabled.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, g.requestOptions...)
	g.client = openaisdk.NewClient(clientOpts...)

	return g, nil
}

// GenerateCardJSON implements generation.Generator. The returned string is
// the message content exactly as the model produced it.
func (g *Generator) GenerateCardJSON(ctx context.Context, word string) (string, error) {
	prompt, err := g.prompt.Render(word)
	if err != nil {
		return "", err
	}

	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"word", word,
		"prompt_length", len(prompt))

	var content string
	err = g.retry.Do(ctx, g.logger, func(ctx context.Context) error {
		var callErr error
		content, callErr = g.completeOnce(ctx, prompt)
		return callErr
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

func (g *Generator) completeOnce(ctx context.Context, prompt string) (string, error) {
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	completion, err := g.client.Chat.Completions.New(
		ctx,
		openaisdk.ChatCompletionNewParams{
			Model: openaisdk.ChatModel(g.config.ModelName),
			Messages: []openaisdk.ChatCompletionMessageParamUnion{
				openaisdk.SystemMessage(generation.SystemPrompt),
				openaisdk.UserMessage(prompt),
			},
			Temperature: param.NewOpt[float64](g.config.Temperature),
			ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", generation.ErrInvalidResponse)
	}

	choice := completion.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: completion stopped by content filter", generation.ErrContentBlocked)
	}

	g.logger.DebugContext(ctx, "Completion received",
		"finish_reason", choice.FinishReason,
		"content_length", len(choice.Message.Content))

	return choice.Message.Content, nil
}
