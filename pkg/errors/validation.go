package errors

import (
	"strings"
	"unicode"
)

// ValidatePartNumber validates a catalog part number for safety and correctness.
// It rejects values that could be used for path traversal when building cache
// paths or API URLs.
//
// The validation rules are intentionally conservative:
//   - No empty part numbers
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 64 characters
//
// Catalog-specific format checks (e.g. numeric suffixes) are left to the
// catalog client.
func ValidatePartNumber(num string) error {
	if num == "" {
		return New(ErrCodeInvalidPart, "part number cannot be empty")
	}

	if len(num) > 64 {
		return New(ErrCodeInvalidPart, "part number too long (max 64 characters)")
	}

	for _, r := range num {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPart, "part number contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(num, pattern) {
			return New(ErrCodeInvalidPart, "part number contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateGenfilePath validates a generator file path for basic safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateGenfilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidGenfile, "generator file path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidGenfile, "generator file path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGenfile, "generator file path contains invalid control characters")
		}
	}

	return nil
}
