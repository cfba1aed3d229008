package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Input    InputConfig    `mapstructure:"input" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

// InputConfig points at the word list.
type InputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// OutputConfig contains the locations and format of the generated files.
type OutputConfig struct {
	CSVPath    string `mapstructure:"csv_path" validate:"required"`
	RawLogPath string `mapstructure:"raw_log_path" validate:"required"`
	// Delimiter separates CSV columns. Semicolons are the default because
	// example sentences routinely contain commas.
	Delimiter string `mapstructure:"delimiter" validate:"required,len=1"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider     string  `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	ModelName    string  `mapstructure:"model_name" validate:"required"`
	Temperature  float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	OpenAIAPIKey string  `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	GeminiAPIKey string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	// BaseURL overrides the OpenAI endpoint, for compatible gateways.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	// PromptTemplatePath optionally replaces the built-in card prompt.
	PromptTemplatePath string        `mapstructure:"prompt_template_path"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"gt=0"`

	MaxAttempts     int           `mapstructure:"max_attempts" validate:"gte=1"`
	RetryMultiplier time.Duration `mapstructure:"retry_multiplier" validate:"gt=0"`
	RetryMaxWait    time.Duration `mapstructure:"retry_max_wait" validate:"gt=0"`
}

// PipelineConfig controls pacing of the card generation loop.
type PipelineConfig struct {
	// Delay is the pause after each written card.
	Delay time.Duration `mapstructure:"delay" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DefaultModel returns the model used when none is configured for the provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "gpt-4o-mini"
	}
}

// Supported LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)
