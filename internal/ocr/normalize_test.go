package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadable(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"too short", "HDFC Bank", false},
		{"long but no letter run", strings.Repeat("1 2 . , | ", 10), false},
		{"readable statement line", "ACME BANK CREDIT CARD STATEMENT FOR MAY 2023 PAGE ONE", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Readable(tc.text, 40))
		})
	}
}

func TestNormalize(t *testing.T) {
	in := "Line one\r\nLine\ttwo   spaced\n\n\n\n____\nLine three  \n"
	want := "Line one\nLine two spaced\n\n\nLine three"
	assert.Equal(t, want, Normalize(in))

	assert.Equal(t, "", Normalize(""))
}
