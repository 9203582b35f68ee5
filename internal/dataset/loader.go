package dataset

import (
	"fmt"
	"io"
	"strings"
)

// Loader reads one tabular file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(r io.Reader, name string) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader based on the filename extension and reads the table.
// Unknown extensions return ErrUnsupportedFormat.
func Load(r io.Reader, filename string) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(filename) {
			t, err := l.Load(r, filename)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filename, err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// cleanHeaders trims header cells and fills blanks with Column_N so every
// column stays addressable by name.
func cleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		out[i] = h
	}
	return out
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(xlsLoader{})
}
