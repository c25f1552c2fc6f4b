package constants

import "strings"

// MaxUploadBytes is the size ceiling for uploaded report documents.
const MaxUploadBytes = 5 << 20 // 5 MiB

// AllowedExtensions holds the accepted upload extensions (normalized, no dot).
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"pdf":  {},
	"docx": {},
}

// AllowedMIMETypes maps declared media types to acceptance. Both the extension
// and the declared type must pass before an upload reaches the pipeline.
var AllowedMIMETypes = map[string]struct{}{
	"text/plain":      {},
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMETypeForExt returns the canonical media type for an allowed extension,
// or "" when the extension is not recognized.
func MIMETypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "txt":
		return "text/plain"
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return ""
}

// IsAllowedExt checks if a file extension is in the allowed set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsAllowedMIMEType checks a declared media type against the allow-list.
// Parameters like "; charset=utf-8" are ignored.
func IsAllowedMIMEType(mt string) bool {
	mt = strings.TrimSpace(strings.ToLower(mt))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	_, ok := AllowedMIMETypes[mt]
	return ok
}
