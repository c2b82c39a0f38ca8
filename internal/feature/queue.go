package feature

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aitri-dev/aitri/internal/paths"
)

// queueFile is the on-disk shape of the priority queue, in YAML or TOML:
//
//	queue:
//	  - feature: login
//	    priority: 0
type queueFile struct {
	Queue []QueueEntry `yaml:"queue" toml:"queue"`
}

// LoadQueue reads the first queue file that exists under layout. No queue
// file is not an error; it returns nil.
func LoadQueue(layout paths.Layout) ([]QueueEntry, error) {
	for _, path := range layout.QueueCandidates() {
		data, err := os.ReadFile(path) // #nosec G304 -- path from resolved layout
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		return parseQueue(path, data)
	}
	return nil, nil
}

func parseQueue(path string, data []byte) ([]QueueEntry, error) {
	var q queueFile
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		if err := yaml.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}

	entries := q.Queue[:0]
	for _, e := range q.Queue {
		if e.Feature == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
