package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLabelLength is the longest display label accepted for an individual.
const MaxLabelLength = 256

// ValidateLabel validates a free-text display label.
//
// Labels may be empty (the canvas then shows nothing) but must not exceed
// MaxLabelLength characters or contain control characters other than
// newline, which the renderers draw as a line break.
func ValidateLabel(label string) error {
	if len([]rune(label)) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateID validates an element identifier read from a document or
// supplied by a caller.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - No whitespace or control characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return New(ErrCodeInvalidInput, "id %q contains whitespace or control characters", id)
	}
	return nil
}

// colorRegex matches #rgb, #rrggbb and #rrggbbaa hex colors.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a hex color used for strokes and export backgrounds.
// The keyword "transparent" is also accepted.
func ValidateColor(c string) error {
	if c == "transparent" || colorRegex.MatchString(c) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid color %q (want #rgb, #rrggbb, #rrggbbaa or transparent)", c)
}
