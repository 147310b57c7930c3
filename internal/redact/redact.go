// Package redact scrubs sensitive material from strings before they are
// logged. Error messages from the LLM client and the auth layer can carry
// API keys, bearer tokens, or user email addresses; redacting at the logging
// boundary keeps them out of the structured log stream.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedKeyPlaceholder   = "[REDACTED_KEY]"
	RedactedTokenPlaceholder = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder  = "[REDACTED_PATH]"
)

var (
	// API keys and generic secrets appearing as key=value or key: value.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Standard three-part base64url JWT.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Absolute filesystem paths, which can expose the data directory layout.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{apiKeyRegex, "$1$2" + RedactedKeyPlaceholder},
		{jwtTokenRegex, RedactedTokenPlaceholder},
		{emailRegex, RedactedEmailPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pp := range patternPlaceholders {
		result = pp.pattern.ReplaceAllString(result, pp.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
