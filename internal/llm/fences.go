package llm

import (
	"strings"
	"unicode"
)

// StripFences removes a leading markdown fence (```, ```latex, ```tex) and a
// trailing ``` along with surrounding whitespace. Anything else is left
// untouched.
func StripFences(s string) string {
	out := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(out, "```"); ok {
		rest = strings.TrimLeftFunc(rest, func(r rune) bool {
			return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
		})
		out = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutSuffix(out, "```"); ok {
		out = strings.TrimSpace(rest)
	}
	return out
}
