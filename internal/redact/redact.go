// Package redact provides utilities for redacting credentials from strings
// before they are logged. Upstream SDK errors can echo request URLs and
// headers, which for the model providers carry API keys.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

// Precompiled regex patterns, applied in order.
var (
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`)

	// Provider key formats: OpenAI "sk-..." and Google "AIza...".
	openAIKeyRegex = regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`)
	googleKeyRegex = regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{30,}`)

	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|access[_-]?token|token|secret|key)\s*['"]?\s*[:=]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}`,
	)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	patterns = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{bearerRegex, RedactedCredentialPlaceholder},
		{openAIKeyRegex, RedactedKeyPlaceholder},
		{googleKeyRegex, RedactedKeyPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{jwtTokenRegex, RedactedJWTPlaceholder},
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
