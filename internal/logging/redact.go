package logging

import "strings"

// IsSensitiveField returns true when a key likely contains sensitive data.
// Test credentials (TEST_PASSWORD and friends) must never reach log output.
func IsSensitiveField(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch {
	case strings.Contains(normalized, "password"):
		return true
	case strings.Contains(normalized, "token"):
		return true
	case strings.Contains(normalized, "secret"):
		return true
	case strings.Contains(normalized, "apikey"):
		return true
	case strings.Contains(normalized, "credential"):
		return true
	default:
		return false
	}
}

// RedactValue redacts a value when its key looks sensitive.
func RedactValue(key, value string) string {
	if IsSensitiveField(key) {
		return "[REDACTED]"
	}
	return value
}

// RedactEnv returns a copy of "KEY=value" pairs with sensitive values redacted,
// for logging the environment handed to the test process.
func RedactEnv(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			out = append(out, pair)
			continue
		}
		out = append(out, key+"="+RedactValue(key, value))
	}
	return out
}
