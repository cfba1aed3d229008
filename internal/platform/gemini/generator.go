package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/ankigen/internal/config"
	"github.com/phrazzld/ankigen/internal/generation"
)

// contentGenerator is the part of the genai client the generator needs.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger *slog.Logger
	models contentGenerator
	model  string
	prompt *generation.Prompt
	retry  generation.RetryPolicy
	config config.LLMConfig
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

// NewGenerator creates a Generator backed by a new Gemini API client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg, opts...)
}

func newGenerator(
	logger *slog.Logger,
	models contentGenerator,
	cfg config.LLMConfig,
	opts ...Option,
) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	g := &Generator{
		logger: logger.With("component", "gemini_generator", "model", cfg.ModelName),
		models: models,
		model:  cfg.ModelName,
		prompt: generation.DefaultPrompt(),
		retry:  generation.NewRetryPolicy(cfg),
		config: cfg,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// GenerateCardJSON implements generation.Generator.
func (g *Generator) GenerateCardJSON(ctx context.Context, word string) (string, error) {
	prompt, err := g.prompt.Render(word)
	if err != nil {
		return "", err
	}

	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"word", word,
		"prompt_length", len(prompt))

	var text string
	err = g.retry.Do(ctx, g.logger, func(ctx context.Context) error {
		var callErr error
		text, callErr = g.generateOnce(ctx, prompt)
		return callErr
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, error) {
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	temperature := float32(g.config.Temperature)
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: generation.SystemPrompt}},
		},
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	return responseText(resp)
}

// responseText extracts the text of the first candidate. A candidate without
// content yields "", which the caller treats as an empty response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
