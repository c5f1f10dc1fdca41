package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFeatureName validates a canonical feature name for safety.
// Feature names become directory names in the output tree, so names that
// could escape the destination root are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No empty dot-separated segments
//   - Maximum length of 256 characters
func ValidateFeatureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "feature name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "feature name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "feature name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"/",    // Unnormalized separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "feature name contains invalid characters: %q", pattern)
		}
	}

	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return New(ErrCodeInvalidInput, "feature name %q contains an empty segment", name)
		}
	}

	return nil
}

// ValidateRelativePath validates a path relative to a source or destination root.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateRelativePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// licenseIDRegex matches the shape of an SPDX short license identifier.
var licenseIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*$`)

// ValidateLicenseID validates the shape of an SPDX license identifier.
// It does not check that the identifier is registered.
func ValidateLicenseID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLicense, "license identifier cannot be empty")
	}
	if !licenseIDRegex.MatchString(id) {
		return New(ErrCodeInvalidLicense, "invalid license identifier: %q", id)
	}
	return nil
}
