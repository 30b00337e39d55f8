package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidatePackageID validates a content package identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Must be rooted (start with "/")
//   - No control characters or null bytes
//   - No path traversal sequences (.., //) or backslashes
//   - No object separators ('.' or ':'), which belong to object paths
//   - Maximum length of 512 characters
func ValidatePackageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPackage, "package identifier cannot be empty")
	}

	if len(id) > 512 {
		return New(ErrCodeInvalidPackage, "package identifier too long (max 512 characters)")
	}

	if !strings.HasPrefix(id, "/") {
		return New(ErrCodeInvalidPackage, "package identifier must start with /: %q", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package identifier contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPackage, "package identifier contains invalid characters: %q", pattern)
		}
	}

	if strings.ContainsAny(id, ".:") {
		return New(ErrCodeInvalidPackage, "package identifier %q looks like an object path", id)
	}

	return nil
}

// ValidateObjectPath validates an object path such as "/Game/Hero.Hero_C".
// The empty path is the null reference and is valid.
func ValidateObjectPath(path string) error {
	if path == "" {
		return nil
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidInput, "object path too long (max 1024 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "object path contains invalid control characters")
		}
	}
	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "object path must start with /: %q", path)
	}
	return nil
}

// Supported output formats.
var OutputFormats = []string{"text", "json", "dot", "svg"}

// ValidateFormat validates a report output format.
func ValidateFormat(format string) error {
	if !slices.Contains(OutputFormats, format) {
		return New(ErrCodeInvalidFormat, "invalid format %q: must be one of %s", format, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// Supported cache backends.
var CacheBackends = []string{"none", "file", "redis"}

// ValidateCacheBackend validates a cache backend name.
func ValidateCacheBackend(backend string) error {
	if !slices.Contains(CacheBackends, backend) {
		return New(ErrCodeInvalidConfig, "invalid cache backend %q: must be one of %s", backend, strings.Join(CacheBackends, ", "))
	}
	return nil
}

// Supported registry sources.
var RegistrySources = []string{"snapshot", "mongo"}

// ValidateRegistrySource validates a registry source name.
func ValidateRegistrySource(source string) error {
	if !slices.Contains(RegistrySources, source) {
		return New(ErrCodeInvalidConfig, "invalid registry source %q: must be one of %s", source, strings.Join(RegistrySources, ", "))
	}
	return nil
}

// ValidateSnapshotFilename validates a snapshot file name by extension.
func ValidateSnapshotFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "snapshot path cannot be empty")
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".toml") && !strings.HasSuffix(lower, ".json") {
		return New(ErrCodeInvalidFormat, "snapshot must be a .toml or .json file: %q", name)
	}
	return nil
}
