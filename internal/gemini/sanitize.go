package gemini

import (
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// StripCodeFence removes a surrounding markdown code fence, with or without a
// language tag, from a model response. Unfenced input passes through.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	// drop the language tag on the opening fence line, e.g. ```json
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		first := strings.TrimSpace(body[:i])
		if first == "" || !strings.ContainsAny(first, "{}[]") {
			body = body[i+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

// FixTrailingCommas repairs the one malformation the model produces in
// practice: a comma before a closing brace or bracket.
func FixTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}
