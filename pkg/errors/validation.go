package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseFloat parses a numeric text field. Blank, malformed, NaN and infinite
// input is reported as ErrCodeParse naming the field.
func ParseFloat(field, text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, New(ErrCodeParse, "%s: value is empty", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, New(ErrCodeParse, "%s: %q is not a number", field, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, New(ErrCodeParse, "%s: %q is not a finite number", field, text)
	}
	return v, nil
}

// ParseInt parses an integer text field.
func ParseInt(field, text string) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, New(ErrCodeParse, "%s: value is empty", field)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, New(ErrCodeParse, "%s: %q is not an integer", field, text)
	}
	return v, nil
}

// ValidatePositive rejects zero, negative and non-finite lengths.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", field)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", field, v)
	}
	return nil
}

// ValidatePath validates an output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
