package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CardFieldNames lists the card fields in CSV column order. The names are
// also the JSON keys the model is asked to produce.
var CardFieldNames = []string{
	"simplified",
	"traditional",
	"pinyin",
	"translation",
	"main_sentence",
	"main_sentence_pinyin",
	"main_sentence_english",
	"sentences_battery",
	"tag",
}

// Card represents one generated Chinese-learning flashcard. A card is
// created per input word, written once and never mutated.
type Card struct {
	Simplified          string `json:"simplified"`
	Traditional         string `json:"traditional"`
	Pinyin              string `json:"pinyin"`
	Translation         string `json:"translation"`
	MainSentence        string `json:"main_sentence"`
	MainSentencePinyin  string `json:"main_sentence_pinyin"`
	MainSentenceEnglish string `json:"main_sentence_english"`
	// SentencesBattery holds 3-5 newline separated example sentences, each
	// formatted as "hanzi | pinyin | English".
	SentencesBattery string `json:"sentences_battery"`
	Tag              string `json:"tag"`
}

// ParseCard decodes the raw model output into a Card.
//
// The output must be a single JSON object and nothing else. Keys must match
// CardFieldNames exactly, including case, and every value must be a string
// or null; absent keys are left empty.
func ParseCard(raw string) (*Card, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidCardContent)
	}

	// Unmarshal rejects trailing data; a map keeps keys exactly as written.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCardContent, err)
	}

	var card Card
	targets := card.fieldTargets()
	for key, value := range fields {
		target, ok := targets[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidCardContent, key)
		}
		var s *string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("%w: value of %q is not a string", ErrInvalidCardContent, key)
		}
		if s != nil {
			*target = *s
		}
	}

	return &card, nil
}

func (c *Card) fieldTargets() map[string]*string {
	return map[string]*string{
		"simplified":            &c.Simplified,
		"traditional":           &c.Traditional,
		"pinyin":                &c.Pinyin,
		"translation":           &c.Translation,
		"main_sentence":         &c.MainSentence,
		"main_sentence_pinyin":  &c.MainSentencePinyin,
		"main_sentence_english": &c.MainSentenceEnglish,
		"sentences_battery":     &c.SentencesBattery,
		"tag":                   &c.Tag,
	}
}

// Record returns the card fields in CardFieldNames order.
func (c *Card) Record() []string {
	return []string{
		c.Simplified,
		c.Traditional,
		c.Pinyin,
		c.Translation,
		c.MainSentence,
		c.MainSentencePinyin,
		c.MainSentenceEnglish,
		c.SentencesBattery,
		c.Tag,
	}
}
