package utils

import "path/filepath"

// EnsureAbsPath normalizes a path for consistent persistence and dedup lookups.
func EnsureAbsPath(path string) string {
	if path == "" {
		path = "."
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ApplyDir places a relative path below dir. An empty dir leaves the path
// relative to the working directory.
func ApplyDir(dir, rel string) string {
	if dir == "" {
		return filepath.Clean(rel)
	}
	return filepath.Join(dir, rel)
}
