// Package speech converts LaTeX-flavored tutor replies into plain text
// suitable for a TTS engine.
package speech

import (
	"regexp"
	"strings"
)

var (
	inlineMathRe = regexp.MustCompile(`\\\((.*?)\\\)`)
	exponentRe   = regexp.MustCompile(`\^\{?(\d+)\}?`)
	blockMathRe  = regexp.MustCompile(`\$\$(.*?)\$\$`)
	textCmdRe    = regexp.MustCompile(`\\text\{(.*?)\}`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// ForSpeech rewrites reply text into a speakable plain string.
//
// Inline math spans are spoken out: exponents become "to the power of",
// \times becomes "times". Block math delimiters and \text wrappers are
// stripped, keeping their contents. Plain text passes through unchanged,
// so the function is idempotent.
//
// Callers must check the result: when it trims to empty, speech synthesis
// should be skipped entirely rather than sending silence to the provider.
func ForSpeech(text string) string {
	out := inlineMathRe.ReplaceAllStringFunc(text, func(span string) string {
		inner := span[2 : len(span)-2]
		inner = exponentRe.ReplaceAllString(inner, " to the power of $1")
		inner = strings.ReplaceAll(inner, `\times`, " times ")
		inner = spacesRe.ReplaceAllString(inner, " ")
		return strings.TrimSpace(inner)
	})
	out = strings.ReplaceAll(out, `\[`, "")
	out = strings.ReplaceAll(out, `\]`, "")
	out = blockMathRe.ReplaceAllString(out, "$1")
	out = strings.ReplaceAll(out, "$", "")
	out = textCmdRe.ReplaceAllString(out, "$1")
	return out
}

// Speakable reports whether normalized text has anything worth synthesizing.
func Speakable(text string) bool {
	return strings.TrimSpace(text) != ""
}
