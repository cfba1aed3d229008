package service_test

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ankigen/internal/domain"
	"github.com/phrazzld/ankigen/internal/events"
	"github.com/phrazzld/ankigen/internal/generation"
	"github.com/phrazzld/ankigen/internal/mocks"
	"github.com/phrazzld/ankigen/internal/platform/csvfile"
	"github.com/phrazzld/ankigen/internal/service"
	"github.com/phrazzld/ankigen/internal/store"
)

const niHaoJSON = `{
  "simplified": "你好",
  "traditional": "你好",
  "pinyin": "nǐ hǎo",
  "translation": "hello",
  "main_sentence": "你好，我叫小明。",
  "main_sentence_pinyin": "nǐ hǎo, wǒ jiào xiǎo míng.",
  "main_sentence_english": "Hello, my name is Xiaoming.",
  "sentences_battery": "你好吗？ | nǐ hǎo ma? | How are you?\n老师你好。 | lǎo shī nǐ hǎo. | Hello, teacher.\n大家好。 | dà jiā hǎo. | Hello everyone.",
  "tag": "HSK1"
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sleepRecorder replaces the pipeline delay and records requested durations.
type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d)
	return nil
}

func (s *sleepRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// eventRecorder collects emitted events.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.PipelineEvent
}

func (r *eventRecorder) HandleEvent(_ context.Context, event *events.PipelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func newPipeline(
	t *testing.T,
	gen generation.Generator,
	cards *mocks.MockCardStore,
	rawLog *mocks.MockRawLogStore,
	opts ...service.PipelineOption,
) *service.CardPipeline {
	t.Helper()
	p, err := service.NewCardPipeline(gen, cards, rawLog, quietLogger(), opts...)
	require.NoError(t, err)
	return p
}

func TestNewCardPipelineValidation(t *testing.T) {
	tests := []struct {
		name     string
		gen      generation.Generator
		cards    store.CardStore
		rawLog   store.RawLogStore
		errorMsg string
	}{
		{name: "nil generator", cards: &mocks.MockCardStore{}, rawLog: &mocks.MockRawLogStore{}, errorMsg: "generator"},
		{name: "nil card store", gen: &mocks.MockGenerator{}, rawLog: &mocks.MockRawLogStore{}, errorMsg: "card store"},
		{name: "nil raw log store", gen: &mocks.MockGenerator{}, cards: &mocks.MockCardStore{}, errorMsg: "raw log store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := service.NewCardPipeline(tt.gen, tt.cards, tt.rawLog, nil)

			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, service.ErrNilDependency)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}

	t.Run("nil logger uses default", func(t *testing.T) {
		p, err := service.NewCardPipeline(&mocks.MockGenerator{}, &mocks.MockCardStore{}, &mocks.MockRawLogStore{}, nil)

		require.NoError(t, err)
		assert.NotNil(t, p)
	})
}

func TestRunWritesCardAndSkipsEmptyResponse(t *testing.T) {
	gen := mocks.NewMockGeneratorWithResponses(map[string]string{
		"你好": niHaoJSON,
		"谢谢": "",
	})
	cards := &mocks.MockCardStore{}
	rawLog := &mocks.MockRawLogStore{}
	sleeper := &sleepRecorder{}
	recorder := &eventRecorder{}
	emitter := events.NewInMemoryEventEmitter(quietLogger())
	emitter.RegisterHandler(recorder)

	p := newPipeline(t, gen, cards, rawLog,
		service.WithDelay(time.Second),
		service.WithSleep(sleeper.sleep),
		service.WithEmitter(emitter))

	stats, err := p.Run(context.Background(), []string{"你好", "谢谢"})

	require.NoError(t, err)
	assert.Equal(t, service.RunStats{Words: 2, Written: 1, Skipped: 1, RawLogged: 2}, stats)

	require.Len(t, cards.Cards(), 1)
	assert.Equal(t, "你好", cards.Cards()[0].Simplified)
	assert.Equal(t, "HSK1", cards.Cards()[0].Tag)

	entries := rawLog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, mocks.RawEntry{Word: "你好", Raw: niHaoJSON}, entries[0])
	assert.Equal(t, mocks.RawEntry{Word: "谢谢", Raw: ""}, entries[1])

	assert.Equal(t, []string{"你好", "谢谢"}, gen.CalledWords())
	assert.Equal(t, 1, sleeper.count(), "delay follows the written card only")

	assert.Equal(t, []events.Type{
		events.WordStarted, events.CardWritten,
		events.WordStarted, events.WordSkipped,
		events.RunFinished,
	}, recorder.types())
}

func TestRunWithFileStores(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "output", "cards.csv")
	rawPath := filepath.Join(dir, "output", "raw_cards_log.txt")

	cardWriter, err := csvfile.OpenCardWriter(csvPath, ';')
	require.NoError(t, err)
	rawLog, err := csvfile.OpenRawLog(rawPath)
	require.NoError(t, err)

	gen := mocks.NewMockGeneratorWithResponses(map[string]string{
		"你好": niHaoJSON,
		"谢谢": "",
	})

	p, err := service.NewCardPipeline(gen, cardWriter, rawLog, quietLogger(), service.WithDelay(0))
	require.NoError(t, err)

	stats, err := p.Run(context.Background(), []string{"你好", "谢谢"})
	require.NoError(t, err)
	require.NoError(t, cardWriter.Close())
	require.NoError(t, rawLog.Close())
	assert.Equal(t, 1, stats.Written)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	reader := csv.NewReader(strings.NewReader(string(csvData)))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "no header row and no row for the skipped word")
	assert.Len(t, rows[0], len(domain.CardFieldNames))
	assert.Equal(t, "你好", rows[0][0])
	assert.Equal(t, "HSK1", rows[0][8])
	assert.Contains(t, rows[0][7], "\n", "multi-line battery survives quoting")

	rawData, err := os.ReadFile(rawPath)
	require.NoError(t, err)
	assert.Equal(t, "--- 你好 ---\n"+niHaoJSON+"\n\n--- 谢谢 ---\n\n\n", string(rawData))
}

func TestRunSkipsInvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not JSON", raw: "Sure! Here is your card."},
		{name: "truncated JSON", raw: `{"simplified": "你好", "pinyin":`},
		{name: "unknown key", raw: `{"simplified": "你好", "difficulty": "easy"}`},
		{name: "non-string value", raw: `{"simplified": "你好", "tag": 1}`},
		{name: "array", raw: `["你好"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := mocks.NewMockGeneratorWithResponses(map[string]string{"你好": tt.raw})
			cards := &mocks.MockCardStore{}
			rawLog := &mocks.MockRawLogStore{}
			p := newPipeline(t, gen, cards, rawLog, service.WithDelay(0))

			stats, err := p.Run(context.Background(), []string{"你好"})

			require.NoError(t, err)
			assert.Equal(t, 1, stats.Skipped)
			assert.Empty(t, cards.Cards())
			require.Len(t, rawLog.Entries(), 1, "raw response is logged even when it cannot be parsed")
			assert.Equal(t, tt.raw, rawLog.Entries()[0].Raw)
		})
	}
}

func TestRunSkipsGeneratorFailureWithoutRawEntry(t *testing.T) {
	gen := &mocks.MockGenerator{
		Responses: map[string]string{"好": niHaoJSON},
		Errors:    map[string]error{"坏": generation.ErrRetriesExhausted},
	}
	cards := &mocks.MockCardStore{}
	rawLog := &mocks.MockRawLogStore{}
	recorder := &eventRecorder{}
	emitter := events.NewInMemoryEventEmitter(quietLogger())
	emitter.RegisterHandler(recorder)
	p := newPipeline(t, gen, cards, rawLog, service.WithDelay(0), service.WithEmitter(emitter))

	stats, err := p.Run(context.Background(), []string{"坏", "好"})

	require.NoError(t, err)
	assert.Equal(t, service.RunStats{Words: 2, Written: 1, Skipped: 1, RawLogged: 1}, stats)
	require.Len(t, rawLog.Entries(), 1)
	assert.Equal(t, "好", rawLog.Entries()[0].Word)

	recorder.mu.Lock()
	skipped := recorder.events[1]
	finished := recorder.events[len(recorder.events)-1]
	recorder.mu.Unlock()
	assert.Equal(t, events.WordSkipped, skipped.Type)
	assert.Equal(t, "坏", skipped.Word)
	assert.Contains(t, skipped.Reason, "retry attempts exhausted")
	assert.Equal(t, events.RunFinished, finished.Type)
	assert.Equal(t, 1, finished.Written)
	assert.Equal(t, 1, finished.Skipped)
}

func TestRunSkipsStoreFailures(t *testing.T) {
	t.Run("raw log failure", func(t *testing.T) {
		gen := mocks.NewMockGeneratorWithResponses(map[string]string{"你好": niHaoJSON})
		cards := &mocks.MockCardStore{}
		rawLog := &mocks.MockRawLogStore{
			AppendRawFn: func(context.Context, string, string) error { return errors.New("disk full") },
		}
		p := newPipeline(t, gen, cards, rawLog, service.WithDelay(0))

		stats, err := p.Run(context.Background(), []string{"你好"})

		require.NoError(t, err)
		assert.Equal(t, service.RunStats{Words: 1, Skipped: 1}, stats)
		assert.Empty(t, cards.Cards(), "a card is never written without its raw entry")
	})

	t.Run("card store failure", func(t *testing.T) {
		gen := mocks.NewMockGeneratorWithResponses(map[string]string{"你好": niHaoJSON})
		cards := &mocks.MockCardStore{
			SaveCardFn: func(context.Context, *domain.Card) error { return errors.New("disk full") },
		}
		rawLog := &mocks.MockRawLogStore{}
		sleeper := &sleepRecorder{}
		p := newPipeline(t, gen, cards, rawLog, service.WithSleep(sleeper.sleep))

		stats, err := p.Run(context.Background(), []string{"你好", "你好"})

		require.NoError(t, err)
		assert.Equal(t, service.RunStats{Words: 2, Skipped: 2, RawLogged: 2}, stats)
		assert.Zero(t, sleeper.count())
	})
}

func TestRunNeverWritesMoreRowsThanWords(t *testing.T) {
	words := []string{"一", "二", "三", "四", "五"}
	gen := &mocks.MockGenerator{
		GenerateCardJSONFn: func(_ context.Context, word string) (string, error) {
			switch word {
			case "二":
				return "", generation.ErrContentBlocked
			case "四":
				return "{}", nil
			default:
				return `{"simplified": "` + word + `", "tag": "HSK1"}`, nil
			}
		},
	}
	cards := &mocks.MockCardStore{}
	rawLog := &mocks.MockRawLogStore{}
	sleeper := &sleepRecorder{}
	p := newPipeline(t, gen, cards, rawLog, service.WithDelay(time.Second), service.WithSleep(sleeper.sleep))

	stats, err := p.Run(context.Background(), words)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Written, "an empty object is a card with empty fields")
	assert.Equal(t, 1, stats.Skipped)
	assert.LessOrEqual(t, len(cards.Cards()), len(words))
	assert.Equal(t, 3, sleeper.count(), "no delay after the last word")

	var simplified []string
	for _, c := range cards.Cards() {
		simplified = append(simplified, c.Simplified)
	}
	assert.Equal(t, []string{"一", "三", "", "五"}, simplified, "cards keep input order")
}

func TestRunEmptyWordList(t *testing.T) {
	gen := &mocks.MockGenerator{}
	p := newPipeline(t, gen, &mocks.MockCardStore{}, &mocks.MockRawLogStore{})

	stats, err := p.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, service.RunStats{}, stats)
	assert.Zero(t, gen.GenerateCardJSONCalls.Count)
}

func TestRunStopsOnCancellation(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		gen := mocks.NewMockGeneratorWithResponses(map[string]string{"你好": niHaoJSON})
		p := newPipeline(t, gen, &mocks.MockCardStore{}, &mocks.MockRawLogStore{})

		stats, err := p.Run(ctx, []string{"你好"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Written)
		assert.Zero(t, gen.GenerateCardJSONCalls.Count)
	})

	t.Run("cancelled during generation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gen := &mocks.MockGenerator{
			GenerateCardJSONFn: func(ctx context.Context, word string) (string, error) {
				if word == "谢谢" {
					cancel()
					return "", ctx.Err()
				}
				return niHaoJSON, nil
			},
		}
		cards := &mocks.MockCardStore{}
		p := newPipeline(t, gen, cards, &mocks.MockRawLogStore{}, service.WithDelay(0))

		stats, err := p.Run(ctx, []string{"你好", "谢谢", "再见"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, stats.Written)
		assert.Zero(t, stats.Skipped, "cancellation is not a skip")
		assert.Equal(t, []string{"你好", "谢谢"}, gen.CalledWords())
	})

	t.Run("cancelled during delay", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gen := mocks.NewMockGeneratorWithResponses(map[string]string{"你好": niHaoJSON, "谢谢": niHaoJSON})
		p := newPipeline(t, gen, &mocks.MockCardStore{}, &mocks.MockRawLogStore{},
			service.WithDelay(time.Hour),
			service.WithSleep(func(context.Context, time.Duration) error {
				cancel()
				return context.Canceled
			}))

		stats, err := p.Run(ctx, []string{"你好", "谢谢"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, stats.Written)
		assert.Equal(t, []string{"你好"}, gen.CalledWords())
	})
}

func TestPipelineError(t *testing.T) {
	cause := domain.ErrInvalidCardContent
	err := &service.PipelineError{Operation: service.StageParse, Word: "你好", Message: "response is not a valid card", Err: cause}

	assert.Equal(t, `card pipeline parse failed for "你好": response is not a valid card: invalid card content`, err.Error())
	assert.ErrorIs(t, err, cause)

	var pipelineErr *service.PipelineError
	require.ErrorAs(t, error(err), &pipelineErr)
	assert.Equal(t, "你好", pipelineErr.Word)

	construction := &service.PipelineError{Operation: "create_pipeline", Message: "generator cannot be nil"}
	assert.Equal(t, "card pipeline create_pipeline failed: generator cannot be nil", construction.Error())
}
