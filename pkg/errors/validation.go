package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxBoardText bounds board input: 25 two-digit tiles plus separators,
// with generous slack for extra whitespace.
const maxBoardText = 256

// ValidateBoardText performs a cheap pre-check on user supplied board text
// before it is parsed. Tiles must be separated by spaces, commas, tabs or
// newlines.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - Maximum length of 256 characters
//   - Only digits and separators
func ValidateBoardText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidBoard, "board cannot be empty")
	}

	if len(text) > maxBoardText {
		return New(ErrCodeInvalidBoard, "board text too long (max %d characters)", maxBoardText)
	}

	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r':
		default:
			return New(ErrCodeInvalidBoard, "board contains invalid character %q", r)
		}
	}

	return nil
}

// nameRegex matches strategy and heuristic names, including aliases such
// as "a*" and "linear-conflict".
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9*_-]{0,31}$`)

// ValidateName checks the shape of a strategy or heuristic name. Whether
// the name is registered is decided by the owning package.
func ValidateName(kind Code, name string) error {
	if name == "" {
		return New(kind, "name cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return New(kind, "invalid name: %q", name)
	}
	return nil
}

// ValidateOutputPath validates a file path that results are written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - Cannot name a directory (trailing separator)
func ValidateOutputPath(path string) error {
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
