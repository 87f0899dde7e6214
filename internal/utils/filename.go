package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// SanitizeFilename turns a name taken from a descriptor (torrent member,
// magnet display name, metalink file name) into a single safe path element.
func SanitizeFilename(name string) string {
	// Replace backslashes first so filepath.Base treats them as separators
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == ".." {
		return "_"
	}
	if name == "/" {
		return "_"
	}
	name = strings.TrimSpace(name)
	name = ansiRegex.ReplaceAllString(name, "")

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer(
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	).Replace(name)
	if name == "" {
		return "_"
	}
	return name
}

// SanitizePath cleans every element of a relative, slash separated path
// such as a metalink file name "dir/sub/file".
func SanitizePath(p string) string {
	parts := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, SanitizeFilename(part))
	}
	return filepath.Join(kept...)
}
