package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "ANKIGEN"

// Load configuration from defaults, an optional ankigen.yaml in the working
// directory, and environment variables. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given YAML file instead of
// searching the working directory. The file must exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("ankigen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a config file entry are invisible to AutomaticEnv during
	// Unmarshal, so everything without a default is bound explicitly.
	bindEnvs := []struct {
		key     string
		envVars []string
	}{
		{"llm.openai_api_key", []string{EnvPrefix + "_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"}},
		{"llm.gemini_api_key", []string{EnvPrefix + "_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"}},
		{"llm.model_name", []string{EnvPrefix + "_LLM_MODEL_NAME"}},
		{"llm.base_url", []string{EnvPrefix + "_LLM_BASE_URL"}},
		{"llm.prompt_template_path", []string{EnvPrefix + "_LLM_PROMPT_TEMPLATE_PATH"}},
	}
	for _, env := range bindEnvs {
		args := append([]string{env.key}, env.envVars...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", env.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = DefaultModel(cfg.LLM.Provider)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "input.txt")

	v.SetDefault("output.csv_path", "output/cards.csv")
	v.SetDefault("output.raw_log_path", "output/raw_cards_log.txt")
	v.SetDefault("output.delimiter", ";")

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.request_timeout", 60*time.Second)
	v.SetDefault("llm.max_attempts", 5)
	v.SetDefault("llm.retry_multiplier", time.Second)
	v.SetDefault("llm.retry_max_wait", 20*time.Second)

	v.SetDefault("pipeline.delay", time.Second)

	v.SetDefault("log.level", "info")
}
