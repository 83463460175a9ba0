package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLength is the longest vertex label the editor accepts.
const MaxLabelLength = 30

// maxGraphIDLength matches the backend's graph name column.
const maxGraphIDLength = 100

// ValidateLabel validates a vertex label entered by the user.
//
// Labels must be non-empty, at most MaxLabelLength characters and free of
// control characters. Length is counted in runes, not bytes.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}
	if n := utf8.RuneCountInString(label); n > MaxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (%d characters, max %d)", n, MaxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label contains invalid control characters")
		}
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex color such as "#ff8800" or "#f80".
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}
	return nil
}

// ValidateGraphID validates a graph identifier for safety.
// The id becomes both a URL path segment and an export filename, so it
// rejects path separators, traversal sequences and control characters.
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraphID, "graph id cannot be empty")
	}

	if len(id) > maxGraphIDLength {
		return New(ErrCodeInvalidGraphID, "graph id too long (max %d characters)", maxGraphIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraphID, "graph id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",
		"/",
		"\\",
		"\x00",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidGraphID, "graph id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWeight validates an edge weight, which the editor keeps in [0, 1].
func ValidateWeight(w float64) error {
	if w < 0 || w > 1 || w != w {
		return New(ErrCodeInvalidInput, "weight %v out of range [0, 1]", w)
	}
	return nil
}
