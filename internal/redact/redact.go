// Package redact removes sensitive information from strings before they
// are logged or returned in error responses: credentials, connection
// strings, tokens, email addresses and SQL fragments.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

// Precompiled patterns, applied in order. Credential patterns run before
// the broader host pattern so a connection string is redacted as a
// credential, not a hostname.
var rules = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Database connection strings with embedded credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|amqp|redis|mysql)://[^@\s]+@`), RedactedCredentialPlaceholder},

	// Password assignments in messages
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},

	// API keys, secrets and tokens
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},

	// JWT tokens (three base64url segments)
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), RedactedEmailPlaceholder},

	// SQL fragments leaked from the store layer
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()]+(?:FROM|INTO|SET)(?:[\s\w,*()='"$]+)?`), RedactedSQLPlaceholder},

	// Host:port pairs
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`), RedactedHostPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, rule := range rules {
		result = rule.pattern.ReplaceAllString(result, rule.placeholder)
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
