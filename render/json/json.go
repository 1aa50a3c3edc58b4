// Package json renders notebooks back to nbformat v4 JSON, after any
// transformers (redaction, compaction) have been applied.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sonnes/nbout/core"
)

// Renderer renders a notebook to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
}

// New creates an indenting JSON Renderer.
func New() *Renderer {
	return &Renderer{Indent: true}
}

type document struct {
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Metadata      map[string]any `json:"metadata"`
	Cells         []cell         `json:"cells"`
}

type cell struct {
	CellType       core.CellType     `json:"cell_type"`
	Metadata       map[string]any    `json:"metadata"`
	Source         []string          `json:"source"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
	Outputs        []json.RawMessage `json:"outputs,omitempty"`
}

// Render writes nb to w.
func (r *Renderer) Render(w io.Writer, nb *core.Notebook) error {
	doc := document{
		NBFormat:      4,
		NBFormatMinor: nb.NBFormatMinor,
		Metadata:      metadata(nb.Metadata),
		Cells:         make([]cell, 0, len(nb.Cells)),
	}
	for i, c := range nb.Cells {
		out := cell{
			CellType:       c.Type,
			Metadata:       map[string]any{},
			Source:         splitLines(c.Source),
			ExecutionCount: c.ExecutionCount,
		}
		if c.Type == core.CellCode {
			out.Outputs = make([]json.RawMessage, 0, len(c.Outputs))
		}
		for j, o := range c.Outputs {
			data, err := core.MarshalOutput(o)
			if err != nil {
				return fmt.Errorf("cell %d output %d: %w", i, j, err)
			}
			out.Outputs = append(out.Outputs, data)
		}
		doc.Cells = append(doc.Cells, out)
	}

	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", " ")
	}
	return enc.Encode(doc)
}

func metadata(m core.NotebookMetadata) map[string]any {
	out := map[string]any{}
	if m.KernelName != "" || m.DisplayName != "" {
		out["kernelspec"] = map[string]string{"name": m.KernelName, "display_name": m.DisplayName}
	}
	if m.Language != "" {
		out["language_info"] = map[string]string{"name": m.Language}
	}
	return out
}

// splitLines splits s into nbformat source lines, each keeping its
// trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
