package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

// Options controls how tabular input is read.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the header line.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Loader reads one file format into a Dataset.
type Loader interface {
	CanLoad(filename string) bool
	Load(ctx context.Context, path string, opt Options) (*dataset.Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ParseFile selects a loader based on filename and parses the file.
func ParseFile(ctx context.Context, path string, opt Options) (*dataset.Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(ctx, path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// Supported reports whether some loader accepts the filename.
func Supported(path string) bool {
	for _, l := range registry {
		if l.CanLoad(path) {
			return true
		}
	}
	return false
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func init() {
	// Register default loaders
	Register(csvLoader{})
	Register(tsvLoader{})
	Register(xlsxLoader{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported file format")
