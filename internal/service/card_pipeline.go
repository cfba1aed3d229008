package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/ankigen/internal/domain"
	"github.com/phrazzld/ankigen/internal/events"
	"github.com/phrazzld/ankigen/internal/generation"
	"github.com/phrazzld/ankigen/internal/redact"
	"github.com/phrazzld/ankigen/internal/store"
)

// RunStats summarises a pipeline run.
type RunStats struct {
	Words     int
	Written   int
	Skipped   int
	RawLogged int
}

// CardPipeline turns words into cards strictly one at a time: fetch the raw
// response, log it, parse it, append the card, then pause before the next
// word. A word that fails at any stage is skipped and never produces a row.
type CardPipeline struct {
	generator generation.Generator
	cards     store.CardStore
	rawLog    store.RawLogStore
	emitter   events.EventEmitter
	logger    *slog.Logger
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// PipelineOption customises a CardPipeline.
type PipelineOption func(*CardPipeline)

// WithDelay sets the pause after each written card.
func WithDelay(d time.Duration) PipelineOption {
	return func(p *CardPipeline) {
		p.delay = d
	}
}

// WithEmitter sets the destination of progress events.
func WithEmitter(emitter events.EventEmitter) PipelineOption {
	return func(p *CardPipeline) {
		if emitter != nil {
			p.emitter = emitter
		}
	}
}

// WithSleep replaces the context-aware sleep used for the delay.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PipelineOption {
	return func(p *CardPipeline) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewCardPipeline creates a new CardPipeline.
// It returns an error if any of the required dependencies are nil.
func NewCardPipeline(
	generator generation.Generator,
	cards store.CardStore,
	rawLog store.RawLogStore,
	logger *slog.Logger,
	opts ...PipelineOption,
) (*CardPipeline, error) {
	if generator == nil {
		return nil, &PipelineError{Operation: "create_pipeline", Message: "generator cannot be nil", Err: ErrNilDependency}
	}
	if cards == nil {
		return nil, &PipelineError{Operation: "create_pipeline", Message: "card store cannot be nil", Err: ErrNilDependency}
	}
	if rawLog == nil {
		return nil, &PipelineError{Operation: "create_pipeline", Message: "raw log store cannot be nil", Err: ErrNilDependency}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	p := &CardPipeline{
		generator: generator,
		cards:     cards,
		rawLog:    rawLog,
		emitter:   events.NopEmitter{},
		logger:    logger.With("component", "card_pipeline"),
		delay:     time.Second,
		sleep:     generation.SleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Run processes words in order. Per-word failures are logged and skipped;
// the only error returned is the context's, in which case the stats cover
// the words handled before cancellation.
func (p *CardPipeline) Run(ctx context.Context, words []string) (RunStats, error) {
	stats := RunStats{Words: len(words)}
	defer p.finish(ctx, &stats)

	p.logger.InfoContext(ctx, "Starting card generation", "word_count", len(words))

	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		p.emit(ctx, events.NewPipelineEvent(events.WordStarted, word))
		p.logger.InfoContext(ctx, "Processing word", "word", word, "position", i+1, "total", len(words))

		rawLogged, err := p.processWord(ctx, word)
		if rawLogged {
			stats.RawLogged++
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			stats.Skipped++
			reason := redact.Error(err)
			p.logger.WarnContext(ctx, "Skipped word", "word", word, "error", reason)

			event := events.NewPipelineEvent(events.WordSkipped, word)
			event.Reason = reason
			p.emit(ctx, event)
			continue
		}

		stats.Written++
		p.emit(ctx, events.NewPipelineEvent(events.CardWritten, word))

		if i < len(words)-1 && p.delay > 0 {
			if err := p.sleep(ctx, p.delay); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

// processWord runs one word through fetch, raw log, parse and save. The
// boolean reports whether a raw log entry was written.
func (p *CardPipeline) processWord(ctx context.Context, word string) (bool, error) {
	raw, err := p.generator.GenerateCardJSON(ctx, word)
	if err != nil {
		return false, newStageError(StageGenerate, word, "model request failed", err)
	}

	if err := p.rawLog.AppendRaw(ctx, word, raw); err != nil {
		return false, newStageError(StageRawLog, word, "failed to log raw response", err)
	}

	card, err := domain.ParseCard(raw)
	if err != nil {
		message := "response is not a valid card"
		if errors.Is(err, domain.ErrEmptyContent) {
			message = "model returned no content"
		}
		return true, newStageError(StageParse, word, message, err)
	}

	if err := p.cards.SaveCard(ctx, card); err != nil {
		return true, newStageError(StageSave, word, "failed to write card", err)
	}

	p.logger.DebugContext(ctx, "Card written", "word", word, "simplified", card.Simplified, "tag", card.Tag)
	return true, nil
}

func (p *CardPipeline) finish(ctx context.Context, stats *RunStats) {
	event := events.NewPipelineEvent(events.RunFinished, "")
	event.Written = stats.Written
	event.Skipped = stats.Skipped
	// The run may have been cancelled; handlers still get the totals.
	p.emit(context.WithoutCancel(ctx), event)

	p.logger.InfoContext(ctx, "Card generation finished",
		"words", stats.Words,
		"written", stats.Written,
		"skipped", stats.Skipped,
		"raw_logged", stats.RawLogged)
}

func (p *CardPipeline) emit(ctx context.Context, event *events.PipelineEvent) {
	if err := p.emitter.EmitEvent(ctx, event); err != nil {
		p.logger.DebugContext(ctx, "Progress handler failed", "event_type", event.Type, "error", err)
	}
}
