// Package terminal renders notebooks as ANSI-colored cells with In/Out
// prompts.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/outputarea"
)

const defaultWidth = 100

// textPreference lists the MIME types shown as text, highest first.
var textPreference = []string{
	core.MimePlain,
	core.MimeMarkdown,
	core.MimeLaTeX,
	core.MimeJSON,
	core.MimeConsoleText,
}

// Renderer pretty-prints a notebook to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the notebook as ANSI-colored cells to w.
func (r *Renderer) Render(w io.Writer, nb *core.Notebook) error {
	width := r.termWidth()

	writeHeader(w, nb)
	for _, c := range nb.Cells {
		writeSeparator(w, width)
		writeCell(w, c, width)
	}
	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

func writeHeader(w io.Writer, nb *core.Notebook) {
	title := nb.Title
	if title == "" {
		title = "Untitled notebook"
	}
	fmt.Fprintln(w, styleTitle.Render(title))

	var parts []string
	if nb.Metadata.DisplayName != "" {
		parts = append(parts, nb.Metadata.DisplayName)
	}
	parts = append(parts, fmt.Sprintf("%s cells", formatNumber(len(nb.Cells))))
	parts = append(parts, fmt.Sprintf("%s outputs", formatNumber(nb.OutputCount())))
	fmt.Fprintln(w, styleMeta.Render(strings.Join(parts, "  ")))
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

func writeCell(w io.Writer, c core.Cell, width int) {
	switch c.Type {
	case core.CellCode:
		prompt := "In [ ]:"
		if c.ExecutionCount != nil {
			prompt = fmt.Sprintf("In [%d]:", *c.ExecutionCount)
		}
		fmt.Fprintln(w, stylePromptIn.Render(prompt))
		writeIndented(w, styleSource, c.Source)
		for _, o := range c.Outputs {
			writeOutput(w, o, width)
		}
	case core.CellMarkdown:
		writeIndented(w, styleMarkdown, c.Source)
	default:
		writeIndented(w, styleMeta, c.Source)
	}
}

func writeOutput(w io.Writer, o core.Output, width int) {
	contentWidth := max(width-4, 40)

	switch v := o.(type) {
	case core.Stream:
		style := lipgloss.NewStyle()
		if v.Name != core.Stdout {
			style = styleStderr
		}
		writeIndented(w, style, strings.TrimRight(v.Text, "\n"))
	case core.Error:
		style := styleError
		if len(v.Traceback) > 0 {
			// Tracebacks carry their own ANSI coloring.
			style = lipgloss.NewStyle()
		}
		writeIndented(w, style, outputarea.ErrorText(v))
	case core.ExecuteResult:
		prompt := "Out[ ]:"
		if v.ExecutionCount != nil {
			prompt = fmt.Sprintf("Out[%d]:", *v.ExecutionCount)
		}
		fmt.Fprintln(w, stylePromptOut.Render(prompt))
		writeBundle(w, v.Data, contentWidth)
	case core.DisplayData:
		writeBundle(w, v.Data, contentWidth)
	default:
		fmt.Fprintln(w, "  "+styleMeta.Render(fmt.Sprintf("[unhandled output: %s]", o.OutputType())))
	}
}

// writeBundle prints the best textual representation, or a one-line
// summary of the MIME types when there is none.
func writeBundle(w io.Writer, b core.Bundle, contentWidth int) {
	for _, m := range textPreference {
		if s, ok := b[m]; ok {
			writeIndented(w, lipgloss.NewStyle(), strings.TrimRight(s, "\n"))
			return
		}
	}
	var parts []string
	for _, m := range b.MimeTypes() {
		parts = append(parts, fmt.Sprintf("%s (%s bytes)", m, formatNumber(len(b[m]))))
	}
	fmt.Fprintln(w, "  "+styleRich.Render(truncate("["+strings.Join(parts, ", ")+"]", contentWidth)))
}

func writeIndented(w io.Writer, style lipgloss.Style, s string) {
	if s == "" {
		return
	}
	for _, line := range strings.Split(s, "\n") {
		fmt.Fprintln(w, "  "+style.Render(line))
	}
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
