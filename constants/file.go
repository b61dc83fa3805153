package constants

import "strings"

const (
	PDF = "PDF"
	TXT = "TXT"
)

// AllowedExtensions holds the file extensions accepted for statement upload.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a coarse format label.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	default:
		return ""
	}
}
