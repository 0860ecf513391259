package services

import (
	"regexp"
	"strings"
)

var (
	speakerPrefixRe = regexp.MustCompile(`^(?i)(?:AI|Assistant)\s*:\s*`)
	edgeNoiseRe     = regexp.MustCompile("^[\\s\"'“”‘’`*]+|[\\s\"'“”‘’`*]+$")
	boldRe          = regexp.MustCompile(`\*\*(.*?)\*\*`)
	inlineCodeRe    = regexp.MustCompile("`([^`]*)`")
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// sanitizeGenerated normalizes raw model output into a single plain-text
// line: leading speaker labels are removed, wrapping quote/markdown noise
// is stripped, emphasis and inline code markers are unwrapped, and
// whitespace runs collapse to single spaces.
//
// Each pass can expose new noise (quotes around a label, a label inside
// emphasis), so the pipeline runs to a fixed point. That makes the whole
// function idempotent.
func sanitizeGenerated(s string) string {
	for {
		next := sanitizePass(s)
		if next == s {
			return s
		}
		s = next
	}
}

func sanitizePass(s string) string {
	s = speakerPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = edgeNoiseRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
