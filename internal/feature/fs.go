package feature

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// FileSystem is the read-only view the resolver needs. OSFileSystem is the
// production implementation; tests can substitute an in-memory one.
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	// ListMarkdown returns the base names (without .md) of regular *.md
	// files in dir, sorted by file name. A missing dir yields no names.
	ListMarkdown(dir string) ([]string, error)
}

// OSFileSystem reads from the real filesystem.
type OSFileSystem struct{}

// Exists reports whether path exists. Permission errors count as missing.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads path.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 -- path comes from the resolved layout
}

// ListMarkdown lists *.md files in dir.
func (OSFileSystem) ListMarkdown(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".md"); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
