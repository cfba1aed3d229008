package generation

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/ankigen/internal/domain"
)

// SystemPrompt is sent as the system instruction with every card request.
const SystemPrompt = "You are an Anki card generator. " +
	"Return ONLY valid JSON with the exact keys requested."

const defaultPromptTemplate = `You are an Anki card maker for Chinese. Given a word or expression, return ONLY a JSON object with the keys:
{{.Fields}}.

Rules:
• main_sentence must show the word in its core meaning.
• sentences_battery is a single string containing 3-5 example sentences; separate each with a newline. Each sentence includes hanzi, pinyin, and English, divided by " | ".
• tag is one broad category (food, technology, classifier, travel, business, clothes, etc.).

Word: {{.Word}}`

// promptData represents the data passed to the prompt template
type promptData struct {
	Word   string
	Fields string
}

// Prompt renders the user instruction for a word.
type Prompt struct {
	tmpl *template.Template
}

var defaultPrompt = &Prompt{
	tmpl: template.Must(template.New("card").Parse(defaultPromptTemplate)),
}

// DefaultPrompt returns the built-in card prompt.
func DefaultPrompt() *Prompt {
	return defaultPrompt
}

// LoadPrompt parses a text/template file. The template receives .Word and
// .Fields (the comma separated card keys). An empty path yields DefaultPrompt.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			ErrInvalidConfig, path, err)
	}

	tmpl, err := template.New("card").Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	p := &Prompt{tmpl: tmpl}
	// Render once so broken templates fail at startup, not on the first word.
	if _, err := p.Render("测试"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return p, nil
}

// Render executes the template for word.
func (p *Prompt) Render(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}

	var b strings.Builder
	data := promptData{
		Word:   word,
		Fields: strings.Join(domain.CardFieldNames, ", "),
	}
	if err := p.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return b.String(), nil
}

// BuildPrompt returns the built-in prompt for word.
func BuildPrompt(word string) string {
	// The built-in template only references fields of promptData, so the
	// only possible failure is an empty word, which renders as "".
	prompt, _ := defaultPrompt.Render(word)
	return prompt
}
