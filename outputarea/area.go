// Package outputarea accumulates the outputs of one notebook cell into a
// single container node.
//
// The CSS class names below are part of the contract with notebook
// stylesheets and must not change.
package outputarea

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/dom"
	"github.com/sonnes/nbout/rendermime"
	"golang.org/x/net/html"
)

const (
	AreaClass          = "jp-OutputArea"
	OutputClass        = "jp-OutputArea-output"
	ResultClass        = "jp-OutputArea-result"
	StdoutClass        = "jp-OutputArea-stdout"
	StderrClass        = "jp-OutputArea-stderr"
	DisplayDataClass   = "jp-OutputArea-displayData"
	ExecuteResultClass = "jp-OutputArea-executeResult"
	ErrorClass         = "jp-Output-error"
)

// Area owns an ordered list of outputs and the container node they render
// into. An Area is not safe for concurrent use; callers serialize Add and
// Clear per instance.
type Area struct {
	registry  *rendermime.Registry
	logger    *log.Logger
	outputs   []core.Output
	node      *html.Node
	clearNext bool
}

// Option configures an Area.
type Option func(*Area)

// WithLogger sets the sink for diagnostics. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(a *Area) { a.logger = l }
}

// New creates an empty Area rendering through reg.
func New(reg *rendermime.Registry, opts ...Option) *Area {
	a := &Area{
		registry: reg,
		logger:   log.Default(),
		node:     dom.Element("div", AreaClass),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add records o and appends its rendered node to the container.
//
// Unrecognized output kinds and bundles without a matching renderer are
// logged and skipped. The only error returned is a renderer failure.
func (a *Area) Add(o core.Output) error {
	if a.clearNext {
		dom.RemoveChildren(a.node)
		a.clearNext = false
	}

	a.outputs = append(a.outputs, o)
	dom.AddClass(a.node, OutputClass)

	bundle, class, ok := bundleFor(o)
	if !ok {
		a.logger.Error("unhandled output area type", "output_type", outputType(o))
		return nil
	}

	child, mime, err := a.registry.Render(bundle)
	switch {
	case errors.Is(err, rendermime.ErrNoRenderer), err == nil && child == nil:
		a.logger.Error("no renderer found for type "+outputType(o), "mimetypes", bundle.MimeTypes())
	case err != nil:
		return fmt.Errorf("render %s output: %w", outputType(o), err)
	default:
		a.node.AppendChild(child)
		dom.AddClass(child, ResultClass)
		a.logger.Debug("rendered output", "output_type", outputType(o), "mimetype", mime)
	}

	dom.AddClass(a.node, class)
	return nil
}

// Clear removes the rendered content. With wait set, clearing is deferred
// until the next Add so the old output stays visible until it is replaced.
// The recorded outputs are kept either way.
func (a *Area) Clear(wait bool) {
	if wait {
		a.clearNext = true
		return
	}
	dom.RemoveChildren(a.node)
}

// Outputs returns every output added so far, including those whose
// rendered nodes were cleared.
func (a *Area) Outputs() []core.Output {
	out := make([]core.Output, len(a.outputs))
	copy(out, a.outputs)
	return out
}

// Len returns the number of outputs added so far.
func (a *Area) Len() int { return len(a.outputs) }

// Node returns the container for mounting into a page.
func (a *Area) Node() *html.Node { return a.node }

// HTML serializes the container.
func (a *Area) HTML() (string, error) { return dom.OuterHTML(a.node) }

// bundleFor derives the MIME bundle and the container class for o.
func bundleFor(o core.Output) (core.Bundle, string, bool) {
	switch v := o.(type) {
	case core.Stream:
		class := StderrClass
		if v.Name == core.Stdout {
			class = StdoutClass
		}
		return core.Bundle{core.MimeConsoleText: v.Text}, class, true
	case core.DisplayData:
		return v.Data, DisplayDataClass, true
	case core.ExecuteResult:
		return v.Data, ExecuteResultClass, true
	case core.Error:
		return core.Bundle{core.MimeConsoleText: ErrorText(v)}, ErrorClass, true
	default:
		return nil, "", false
	}
}

// ErrorText is the console text shown for an error: the traceback lines, or
// "ename: evalue" when the traceback is empty.
func ErrorText(e core.Error) string {
	if tb := strings.Join(e.Traceback, "\n"); tb != "" {
		return tb
	}
	return e.EName + ": " + e.EValue
}

func outputType(o core.Output) string {
	if o == nil {
		return "<nil>"
	}
	return string(o.OutputType())
}
