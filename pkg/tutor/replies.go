package tutor

import (
	"regexp"
	"strings"
	"sync"
)

// replyHistoryCap bounds how many prior replies are kept for
// duplicate suppression.
const replyHistoryCap = 3

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// normalizeReply lowercases a reply and strips everything that is not an
// ASCII letter or digit, so containment checks ignore punctuation,
// whitespace, and LaTeX markup.
func normalizeReply(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
}

// ReplyHistory is a bounded list of the tutor's most recent replies,
// newest first. It is safe for concurrent use.
type ReplyHistory struct {
	mu      sync.Mutex
	entries []string
}

// NewReplyHistory creates an empty history.
func NewReplyHistory() *ReplyHistory {
	return &ReplyHistory{}
}

// Push inserts a reply at the front, evicting the oldest entry when the
// history is full.
func (h *ReplyHistory) Push(reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]string{reply}, h.entries...)
	if len(h.entries) > replyHistoryCap {
		h.entries = h.entries[:replyHistoryCap]
	}
}

// Entries returns a copy of the history, newest first.
func (h *ReplyHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]string, len(h.entries))
	copy(result, h.entries)
	return result
}

// Len returns the number of stored replies.
func (h *ReplyHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Seen reports whether candidate repeats a recent reply. Containment is
// checked both ways after normalization, catching truncated repeats as
// well as expanded ones.
func (h *ReplyHistory) Seen(candidate string) bool {
	normalized := normalizeReply(candidate)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, old := range h.entries {
		oldNormalized := normalizeReply(old)
		if strings.Contains(oldNormalized, normalized) || strings.Contains(normalized, oldNormalized) {
			return true
		}
	}
	return false
}
