package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/phrazzld/ankigen/internal/config"
	"github.com/phrazzld/ankigen/internal/events"
	"github.com/phrazzld/ankigen/internal/generation"
	"github.com/phrazzld/ankigen/internal/platform/csvfile"
	"github.com/phrazzld/ankigen/internal/platform/gemini"
	"github.com/phrazzld/ankigen/internal/platform/logger"
	"github.com/phrazzld/ankigen/internal/platform/openai"
	"github.com/phrazzld/ankigen/internal/service"
	"github.com/phrazzld/ankigen/internal/wordlist"
)

// run wires the application together and processes the whole word list.
// Errors returned here are fatal; per-word failures are reported through the
// console and do not fail the run.
func run(ctx context.Context, stdout io.Writer, configPath string) (err error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Log).With("run_id", uuid.New().String())
	log.InfoContext(ctx, "Configuration loaded",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName,
		"input", cfg.Input.Path,
		"log_level", cfg.Log.Level)

	words, err := wordlist.Read(cfg.Input.Path)
	if err != nil {
		return err
	}

	delimiter, err := csvfile.ParseDelimiter(cfg.Output.Delimiter)
	if err != nil {
		return err
	}

	generator, err := newGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	cards, err := csvfile.OpenCardWriter(cfg.Output.CSVPath, delimiter)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, cards.Close())
	}()

	rawLog, err := csvfile.OpenRawLog(cfg.Output.RawLogPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rawLog.Close())
	}()

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(newConsole(stdout, absPath(cfg.Output.CSVPath)))

	pipeline, err := service.NewCardPipeline(generator, cards, rawLog, log,
		service.WithDelay(cfg.Pipeline.Delay),
		service.WithEmitter(emitter))
	if err != nil {
		return err
	}

	if _, err := pipeline.Run(ctx, words); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newGenerator builds the generator for the configured provider.
func newGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	prompt, err := generation.LoadPrompt(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewGenerator(log, cfg, openai.WithPrompt(prompt))
	case config.ProviderGemini:
		return gemini.NewGenerator(ctx, log, cfg, gemini.WithPrompt(prompt))
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
