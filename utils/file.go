package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// IsImageContentType checks the declared MIME type of an upload. Matches the
// multer fileFilter behavior: anything under image/ is accepted.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// SanitizeStem strips path components and characters that are unsafe in a
// stored filename, keeping the original stem recognizable.
func SanitizeStem(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	if sanitized == "" {
		sanitized = "photo"
	}
	return sanitized
}

// GenerateStoredFilename mints a collision-resistant stored name for an
// uploaded file: {sanitized-stem}_{timestampMillis}_{8-byte-hex}{ext}. The
// millisecond timestamp plus random suffix makes the name unique globally,
// so re-ingesting the same file always creates a distinct photo.
func GenerateStoredFilename(originalName string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate filename suffix: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	stem := SanitizeStem(originalName)
	millis := time.Now().UnixMilli()

	return fmt.Sprintf("%s_%d_%s%s", stem, millis, hex.EncodeToString(suffix), ext), nil
}

// StripExtension returns the filename without its extension, used when
// building export codes for editing tools.
func StripExtension(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
