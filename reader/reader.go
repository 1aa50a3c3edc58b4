// Package reader defines the interface for loading notebooks from disk into
// the core model.
package reader

import "github.com/sonnes/nbout/core"

// Reader parses notebook documents.
type Reader interface {
	// ReadFile parses a single notebook file at the given path.
	ReadFile(path string) (*core.Notebook, error)

	// ReadDir returns every notebook found directly in dir.
	ReadDir(dir string) ([]*core.Notebook, error)
}
