package assistant

import (
	"regexp"
	"strings"
)

// thinkingRe matches the reasoning blocks some models wrap around their
// answer. Both <think> and <Thinking> spellings occur in the wild.
var thinkingRe = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)

// CleanResponse strips reasoning tags and markdown fences from raw model
// output and trims the surrounding whitespace. The prompts forbid both, but
// models leak them anyway.
func CleanResponse(raw string) string {
	cleaned := thinkingRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "```drl", "")
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
