package errors

import (
	"os"
	"strings"
	"unicode"
)

// GroupPlaceholder is substituted with the group name in group-mode output
// paths.
const GroupPlaceholder = "%s"

// ValidateOutputPattern checks an output destination against the output
// mode. In group mode the pattern must contain exactly one [GroupPlaceholder]
// so every group gets its own file; in single mode it must contain none.
// Other verbs are rejected in both modes since the pattern goes through
// fmt.Sprintf.
func ValidateOutputPattern(output string, groups bool) error {
	if output == "" {
		return New(ErrCodeConfiguration, "output path cannot be empty")
	}

	unescaped := strings.ReplaceAll(output, "%%", "")
	n := strings.Count(unescaped, GroupPlaceholder)
	if groups && n != 1 {
		return New(ErrCodeConfiguration,
			"the output path must contain %q for group name substitution when groups are enabled", GroupPlaceholder)
	}
	if !groups && n != 0 {
		return New(ErrCodeConfiguration,
			"the output path contains %q but groups are not enabled", GroupPlaceholder)
	}

	rest := strings.ReplaceAll(unescaped, GroupPlaceholder, "")
	if strings.Contains(rest, "%") {
		return New(ErrCodeConfiguration, "output path contains an unsupported format verb: %q", output)
	}
	return nil
}

// ValidateGroupName validates a group name before it is substituted into an
// output path. It rejects names that would escape the output directory.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 200 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateGroupName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "group name cannot be empty")
	}
	if len(name) > 200 {
		return New(ErrCodeInvalidInput, "group name too long (max 200 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "group name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"/", "\\", ".."} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "group name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateDirectory checks that dir names an existing directory.
func ValidateDirectory(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "input directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Wrap(ErrCodeFileNotFound, err, "input directory %s does not exist", dir)
	}
	if err != nil {
		return Wrap(ErrCodeIO, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	return nil
}

// ValidatePath validates a relative document path requested from the preview
// server. It prevents path traversal and ensures a reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateCacheURL validates a cache backend URL. Only Redis URLs are
// accepted.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "cache URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidInput, "cache URL must use the redis or rediss scheme")
	}
	return nil
}
