// Package render defines the interface for rendering notebooks into various
// output formats.
package render

import (
	"io"

	"github.com/sonnes/nbout/core"
)

// Renderer writes a notebook to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, nb *core.Notebook) error
}
