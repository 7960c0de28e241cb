package astro

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Unknown fills every field the input did not supply.
const Unknown = "N/A"

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	singleQuotedKey   = regexp.MustCompile(`'([^']*)':`)
	singleQuotedValue = regexp.MustCompile(`:\s*'([^']*)'`)
	trueLiteral       = regexp.MustCompile(`\bTrue\b`)
	falseLiteral      = regexp.MustCompile(`\bFalse\b`)
	noneLiteral       = regexp.MustCompile(`\bNone\b`)
)

// IsBlank reports whether raw carries no data: empty, whitespace, "N/A" or "null".
func IsBlank(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", Unknown, "null":
		return true
	}
	return false
}

// Clean repairs the common ways stored fields deviate from JSON: collapsed
// whitespace, single-quoted keys and values, and capitalized literals.
func Clean(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	s = singleQuotedKey.ReplaceAllString(s, `"${1}":`)
	s = singleQuotedValue.ReplaceAllString(s, `: "${1}"`)
	s = trueLiteral.ReplaceAllString(s, "true")
	s = falseLiteral.ReplaceAllString(s, "false")
	s = noneLiteral.ReplaceAllString(s, "null")
	return s
}

// CleanChat prepares a chat transcript for decoding. Literal newlines, carriage
// returns and tabs inside string literals are escaped, and the text is wrapped
// in brackets unless it already starts as an array.
func CleanChat(raw string) string {
	s := strings.TrimSpace(norm.NFC.String(raw))

	var b strings.Builder
	b.Grow(len(s) + 2)

	inString, escaped := false, false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n':
				b.WriteString(`\n`)
				continue
			case r == '\r':
				b.WriteString(`\r`)
				continue
			case r == '\t':
				b.WriteString(`\t`)
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}

	out := b.String()
	if !strings.HasPrefix(out, "[") {
		out = "[" + out + "]"
	}
	return out
}
