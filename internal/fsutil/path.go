package fsutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CanonicalizePath returns the absolute, symlink-resolved form of path,
// falling back to the absolute path (or path itself) when resolution fails.
func CanonicalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return canonical
}

// NormalizePathForComparison canonicalizes path and lowercases it on
// case-insensitive filesystems. Use it for comparing, never for display.
func NormalizePathForComparison(path string) string {
	if path == "" {
		return ""
	}
	canonical := CanonicalizePath(path)
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		canonical = strings.ToLower(canonical)
	}
	return canonical
}

// PathsEqual reports whether two paths name the same project root.
func PathsEqual(a, b string) bool {
	return NormalizePathForComparison(a) == NormalizePathForComparison(b)
}
