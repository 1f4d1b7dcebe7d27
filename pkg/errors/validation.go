package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxInstanceIDLength = 128
	maxPluginURILength  = 512
	maxPathLength       = 500
)

// ValidateInstanceID validates a chain node instance identifier.
//
// Instance IDs end up in SVG element ids, cache keys and hit-test results, so
// the rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidateInstanceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChain, "instance id cannot be empty")
	}
	if len(id) > maxInstanceIDLength {
		return New(ErrCodeInvalidChain, "instance id too long (max %d characters)", maxInstanceIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidChain, "instance id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidChain, "instance id %q contains markup characters", id)
	}
	return nil
}

// pluginURIRegex matches the plugin reference forms found in catalogs:
// absolute URIs ("http://...", "urn:...") and bare short names ("tubescreamer").
var pluginURIRegex = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*:[^\s]+|[a-zA-Z0-9][a-zA-Z0-9._/-]*)$`)

// ValidatePluginURI validates a plugin reference.
func ValidatePluginURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidPlugin, "plugin reference cannot be empty")
	}
	if len(uri) > maxPluginURILength {
		return New(ErrCodeInvalidPlugin, "plugin reference too long (max %d characters)", maxPluginURILength)
	}
	if !pluginURIRegex.MatchString(uri) {
		return New(ErrCodeInvalidPlugin, "invalid plugin reference: %q", uri)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is asked to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
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
	return nil
}
