package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileExists is returned when saving under a default name would overwrite a file.
var ErrFileExists = errors.New("file already exists")

// DefaultFileName returns the name used when the user does not pick one:
// untitled.<language>, or untitled.txt when the language is unknown.
func DefaultFileName(language string) string {
	ext := sanitizeExt(language)
	if ext == "" {
		ext = "txt"
	}
	return "untitled." + ext
}

// SaveCode writes code to path, resolved against dir when relative. An empty
// path selects DefaultFileName(language) and never overwrites an existing file.
// It returns the path written.
func SaveCode(dir, path, code, language string) (string, error) {
	if code == "" {
		return "", ErrNoCode
	}
	explicit := path != ""
	if !explicit {
		path = DefaultFileName(language)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	if !explicit {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func sanitizeExt(language string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(language)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
