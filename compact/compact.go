// Package compact provides a Transformer that replaces long stream text,
// tracebacks and binary payloads with short summaries for compact viewing.
package compact

import (
	"fmt"
	"strings"

	"github.com/sonnes/nbout/core"
)

// DefaultMaxLines is the stream length, in lines, above which text is
// summarized when Config.MaxLines is zero.
const DefaultMaxLines = 50

// Config controls the compact transformer behavior.
type Config struct {
	// MaxLines is the longest stream or traceback kept verbatim.
	MaxLines int
	// StripImages replaces image payloads with a text/plain size summary.
	StripImages bool
}

// Compactor summarizes verbose outputs.
type Compactor struct {
	maxLines    int
	stripImages bool
}

// New creates a Compactor from the given config.
func New(cfg Config) *Compactor {
	maxLines := cfg.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Compactor{maxLines: maxLines, stripImages: cfg.StripImages}
}

// Transform implements core.Transformer.
func (c *Compactor) Transform(nb *core.Notebook) error {
	for i := range nb.Cells {
		for j, o := range nb.Cells[i].Outputs {
			nb.Cells[i].Outputs[j] = c.CompactOutput(o)
		}
	}
	return nil
}

// CompactOutput returns a summarized copy of o. The input is not modified.
func (c *Compactor) CompactOutput(o core.Output) core.Output {
	switch v := o.(type) {
	case core.Stream:
		if countLines(v.Text) > c.maxLines {
			v.Text = lineSummary(string(v.Name), v.Text)
		}
		return v
	case core.Error:
		if len(v.Traceback) > c.maxLines {
			v.Traceback = []string{
				fmt.Sprintf("[traceback: %d lines]", len(v.Traceback)),
				v.Traceback[len(v.Traceback)-1],
			}
		}
		return v
	case core.DisplayData:
		if c.stripImages {
			v.Data = stripImages(v.Data)
		}
		return v
	case core.ExecuteResult:
		if c.stripImages {
			v.Data = stripImages(v.Data)
		}
		return v
	default:
		return o
	}
}

// stripImages drops raster image payloads. When the bundle has no
// text/plain fallback, a size summary takes its place.
func stripImages(b core.Bundle) core.Bundle {
	out := b.Clone()
	var summaries []string
	for _, mime := range b.MimeTypes() {
		if !strings.HasPrefix(mime, "image/") || mime == core.MimeSVG {
			continue
		}
		summaries = append(summaries, fmt.Sprintf("[%s: %d bytes]", mime, len(b[mime])))
		delete(out, mime)
	}
	if _, ok := out[core.MimePlain]; !ok && len(summaries) > 0 {
		out[core.MimePlain] = strings.Join(summaries, " ")
	}
	return out
}

// lineSummary returns a summary like "[stdout: 245 lines]".
func lineSummary(label, s string) string {
	n := countLines(s)
	if n == 1 {
		return fmt.Sprintf("[%s: 1 line]", label)
	}
	return fmt.Sprintf("[%s: %d lines]", label, n)
}

// countLines returns the number of lines in s.
// An empty string has 0 lines. A string with no newline has 1 line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}
