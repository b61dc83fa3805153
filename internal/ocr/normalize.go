package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

	reLetterRun = regexp.MustCompile(`[A-Za-z]{3,}`)
)

// Readable reports whether a page's text layer is usable as-is: the
// stripped text must be at least minLen characters and contain at least
// one run of three or more letters. Anything else (empty layer, symbol
// soup from a scanned page) goes to the OCR path instead.
func Readable(text string, minLen int) bool {
	stripped := strings.TrimSpace(text)
	if len(stripped) < minLen {
		return false
	}
	return reLetterRun.MatchString(stripped)
}

// Normalize collapses noisy whitespace in OCR output. Conservative: keeps
// line breaks; collapses >2 newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = reBoxNoise.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
