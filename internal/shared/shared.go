// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// englishTitle matches titles built only from ASCII letters, digits, whitespace and common punctuation.
//
// Whitespace is the Unicode set [strings.TrimSpace] strips, so a title trimmed of
// NBSP at its ends may also carry one inside.
var englishTitle = regexp.MustCompile(`^[a-zA-Z0-9\p{Z}\t\n\v\f\r\x{85}.,!?'\-:;()"’]+$`)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// IsEnglishTitle reports whether a trimmed title is non-empty and made only of English characters.
//
// Values that are not strings are formatted before matching; nil is never English.
func IsEnglishTitle(title any) bool {
	s, ok := Stringify(title)
	if !ok {
		return false
	}
	return englishTitle.MatchString(strings.TrimSpace(s))
}

// Stringify returns the string form of v and false when v is nil.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case []byte:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// CleanField trims a nullable column value, returning "" for nil.
func CleanField(v any) string {
	s, _ := Stringify(v)
	return strings.TrimSpace(s)
}

// NormalizeTitleKey folds a title to a lowercase key of ASCII letters and digits for loose matching.
func NormalizeTitleKey(title string) string {
	lower := cases.Lower(language.Und).String(title)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
