package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidFileName is returned when a name cannot be made safe for the scratch directory.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	return s, nil
}

// SanitizeFileNameOr returns the sanitized name, or fallback when name is unusable.
func SanitizeFileNameOr(name, fallback string) string {
	s, err := SanitizeFileName(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if err != nil {
		return fallback
	}
	return s
}
