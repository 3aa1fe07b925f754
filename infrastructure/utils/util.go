package utils

import (
	"crypto/subtle"
	"regexp"
	"strings"
	"time"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// SanitizeFileName keeps the last path segment, turns whitespace runs into
// hyphens and drops anything outside [A-Za-z0-9._-]. An empty result becomes "file".
func SanitizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "file"
	}
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-")
	name = disallowedChars.ReplaceAllString(name, "")
	if name == "" {
		return "file"
	}
	return name
}

// IsInlineContentType reports whether a browser should render the type in place.
func IsInlineContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.HasPrefix(ct, "image/") ||
		strings.HasPrefix(ct, "video/") ||
		strings.HasPrefix(ct, "audio/") ||
		ct == "application/pdf"
}

// ContentDisposition builds the header value, quoting the file name when present.
func ContentDisposition(contentType, fileName string) string {
	disposition := "attachment"
	if IsInlineContentType(contentType) {
		disposition = "inline"
	}
	if strings.TrimSpace(fileName) == "" {
		return disposition
	}
	return disposition + `; filename="` + strings.ReplaceAll(fileName, `"`, `\"`) + `"`
}

// SecureCompare compares shared secrets in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
