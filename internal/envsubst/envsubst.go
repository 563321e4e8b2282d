// Package envsubst expands ${NAME} placeholders against the process
// environment, the way endpoint address/header/body templates are
// resolved at check time.
package envsubst

import (
	"log/slog"
	"os"
	"regexp"
)

// placeholder matches ${NAME} where NAME is [A-Z_][A-Z0-9_]*. Any other
// form inside ${...} (lowercase, empty, leading digit) is left untouched,
// as is the bare $VAR form (no braces), per the substitution grammar.
var placeholder = regexp.MustCompile(`\$\{[A-Z_][A-Z0-9_]*\}`)

// Expand replaces every ${NAME} occurrence in s with the value of the
// NAME environment variable. An undefined variable expands to the empty
// string and is reported through logger (if non-nil) as a warning.
// Invalid forms are passed through unchanged.
func Expand(s string, logger *slog.Logger) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1] // strip "${" and "}"
		value, ok := os.LookupEnv(name)
		if !ok {
			if logger != nil {
				logger.Warn("environment variable not set, substituting empty string", "name", name)
			}
			return ""
		}
		return value
	})
}
