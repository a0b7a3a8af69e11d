// Package source reads heterogeneous agenda documents into flattened tables
// of text cells. The core pipeline never touches document containers
// directly; it consumes the Document/Table shapes produced here.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Table is one table of a document, as raw cell text.
type Table struct {
	Rows [][]string
}

// Document is one source file, flattened to its tables.
type Document struct {
	Name   string // Base file name, used in source references
	Tables []Table
}

// Reader reads one document format.
type Reader interface {
	// Name returns the reader name, for diagnostics.
	Name() string

	// CanHandle reports whether this reader handles the given path.
	CanHandle(path string) bool

	// Read parses the document at path.
	Read(path string) (*Document, error)
}

// Registry holds the available document readers.
type Registry struct {
	readers []Reader
}

// NewRegistry creates a registry with the built-in readers.
func NewRegistry() *Registry {
	return &Registry{
		readers: []Reader{
			NewDocxReader(),
			NewXlsxReader(),
			NewCSVReader(),
		},
	}
}

// FindReader returns the reader for path, or nil when the format is not
// supported.
func (r *Registry) FindReader(path string) Reader {
	for _, reader := range r.readers {
		if reader.CanHandle(path) {
			return reader
		}
	}
	return nil
}

// Scan lists the readable documents in dir, sorted by name for a
// deterministic extraction order. Word lock files (~$ prefix) and hidden
// files are skipped.
func (r *Registry) Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if r.FindReader(path) != nil {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func hasExt(path string, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
