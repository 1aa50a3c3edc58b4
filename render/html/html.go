// Package html renders notebooks as standalone HTML pages. Cell outputs are
// mounted through output areas, so the page carries the same jp-OutputArea
// class structure a live notebook front end produces.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/outputarea"
	"github.com/sonnes/nbout/rendermime"
)

//go:embed templates/*.html
var content embed.FS

// Renderer renders a notebook to a standalone HTML page.
type Renderer struct {
	registry *rendermime.Registry
	md       *rendermime.MarkdownRenderer
	tmpl     *template.Template
	logger   *log.Logger

	// NotebookHref, when non-nil, overrides the default {title}.html link
	// pattern on the index page. Used by the serve command to generate
	// server-routed URLs.
	NotebookHref func(nb *core.Notebook) string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger that output areas report diagnostics to.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithHighlightStyle sets the chroma style for markdown cells and cell
// sources.
func WithHighlightStyle(style string) Option {
	return func(r *Renderer) { r.md = rendermime.NewMarkdownRenderer(style) }
}

// New creates an HTML Renderer that renders outputs through reg.
func New(reg *rendermime.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		registry: reg,
		md:       rendermime.NewMarkdownRenderer(rendermime.DefaultHighlightStyle),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tmpl = template.Must(template.New("page.html").ParseFS(content, "templates/*.html"))
	return r
}

// pageData is the top-level template data passed to page.html.
type pageData struct {
	Notebook *core.Notebook
	Cells    []cellData
}

// cellData is the per-cell template data.
type cellData struct {
	ID      string // anchor ID (e.g. "cell-0")
	Type    core.CellType
	Prompt  string // "[3]" for executed code cells
	Source  template.HTML
	Outputs template.HTML
}

// indexEntry is one row of index.html.
type indexEntry struct {
	Title   string
	Href    string
	Cells   int
	Outputs int
	Kernel  string
}

// Render writes the notebook as a complete HTML page to w.
func (r *Renderer) Render(w io.Writer, nb *core.Notebook) error {
	cells := make([]cellData, 0, len(nb.Cells))
	for i, c := range nb.Cells {
		cd, err := r.renderCell(nb, c)
		if err != nil {
			return fmt.Errorf("render cell %d: %w", i, err)
		}
		cd.ID = fmt.Sprintf("cell-%d", i)
		cells = append(cells, cd)
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", pageData{Notebook: nb, Cells: cells})
}

// RenderIndex writes an HTML page linking to each notebook.
func (r *Renderer) RenderIndex(w io.Writer, notebooks []*core.Notebook) error {
	entries := make([]indexEntry, len(notebooks))
	for i, nb := range notebooks {
		href := nb.Title + ".html"
		if r.NotebookHref != nil {
			href = r.NotebookHref(nb)
		}
		entries[i] = indexEntry{
			Title:   nb.Title,
			Href:    href,
			Cells:   len(nb.Cells),
			Outputs: nb.OutputCount(),
			Kernel:  nb.Metadata.DisplayName,
		}
	}
	return r.tmpl.ExecuteTemplate(w, "index.html", entries)
}

func (r *Renderer) renderCell(nb *core.Notebook, c core.Cell) (cellData, error) {
	cd := cellData{Type: c.Type}
	switch c.Type {
	case core.CellMarkdown:
		s, err := r.md.Convert(c.Source)
		if err != nil {
			return cd, err
		}
		cd.Source = template.HTML(s)
		return cd, nil

	case core.CellCode:
		if c.ExecutionCount != nil {
			cd.Prompt = fmt.Sprintf("[%d]", *c.ExecutionCount)
		} else {
			cd.Prompt = "[ ]"
		}
		src, err := r.md.Convert(fence(c.Source, nb.Metadata.Language))
		if err != nil {
			src = `<pre>` + template.HTMLEscapeString(c.Source) + `</pre>`
		}
		cd.Source = template.HTML(src)

		if len(c.Outputs) == 0 {
			return cd, nil
		}
		area := outputarea.New(r.registry, outputarea.WithLogger(r.logger))
		for j, o := range c.Outputs {
			// A faulty payload blanks its own output, not the page.
			if err := area.Add(o); err != nil {
				r.logger.Error("render output", "output", j, "error", err)
			}
		}
		out, err := area.HTML()
		if err != nil {
			return cd, err
		}
		cd.Outputs = template.HTML(out)
		return cd, nil

	default:
		cd.Source = template.HTML(`<pre>` + template.HTMLEscapeString(c.Source) + `</pre>`)
		return cd, nil
	}
}

// fence wraps source in a markdown code fence longer than any backtick run
// it contains.
func fence(source, lang string) string {
	f := "```"
	for strings.Contains(source, f) {
		f += "`"
	}
	return f + lang + "\n" + source + "\n" + f
}
