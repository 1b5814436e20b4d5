package tutor

import (
	"regexp"
	"strings"
)

// Matches a digit followed, possibly after punctuation or other words,
// by "time" or "times" (e.g. "2 times", "3, times").
var followUpRe = regexp.MustCompile(`\d.*times?`)

// IsFollowUp reports whether a student message contains a direct question
// or a numeric guess that deserves a targeted clarification pass.
func IsFollowUp(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "?") ||
		strings.Contains(lower, "how") ||
		followUpRe.MatchString(lower)
}
