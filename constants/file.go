package constants

import "strings"

// FileKind is the coarse document format used for dispatch and reporting.
type FileKind string

const (
	PDF     FileKind = "PDF"
	DOCX    FileKind = "DOCX"
	TEXT    FileKind = "TEXT"
	ARCHIVE FileKind = "ARCHIVE"
	UNKNOWN FileKind = "UNKNOWN"
)

// AllowedExtensions holds the default allowed file extensions for syllabus ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"txt":  {},
	"md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind resolves a file extension (with or without dot) to its FileKind.
func MapExtToKind(ext string) FileKind {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "txt", "md", "text", "markdown":
		return TEXT
	case "zip":
		return ARCHIVE
	default:
		return UNKNOWN
	}
}
