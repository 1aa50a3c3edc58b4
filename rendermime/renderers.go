package rendermime

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/charmbracelet/x/ansi"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/dom"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// DefaultHighlightStyle is the chroma style used for fenced code in markdown.
const DefaultHighlightStyle = "dracula"

type options struct {
	highlightStyle string
	trusted        bool
	exclude        []string
}

// Option configures Default.
type Option func(*options)

// WithHighlightStyle sets the chroma style for code in markdown output.
func WithHighlightStyle(style string) Option {
	return func(o *options) {
		if style != "" {
			o.highlightStyle = style
		}
	}
}

// WithTrusted controls whether active content is rendered. An untrusted
// registry has no JavaScript or HTML renderer, so bundles fall back to their
// other representations.
func WithTrusted(trusted bool) Option {
	return func(o *options) { o.trusted = trusted }
}

// WithoutMimeTypes leaves the given MIME types out of the registry.
func WithoutMimeTypes(mimetypes ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, mimetypes...) }
}

// Default builds the standard registry. Preference order, highest first:
// JavaScript, Markdown, HTML, images, SVG, LaTeX, console text, plain text.
func Default(opts ...Option) *Registry {
	o := options{highlightStyle: DefaultHighlightStyle, trusted: true}
	for _, opt := range opts {
		opt(&o)
	}

	b := NewBuilder().Exclude(o.exclude...)
	if !o.trusted {
		b.Exclude(core.MimeJavaScript, core.MimeHTML)
	}
	return b.
		Register(JavaScriptRenderer{}).
		Register(NewMarkdownRenderer(o.highlightStyle)).
		Register(HTMLRenderer{}).
		Register(ImageRenderer{}).
		Register(SVGRenderer{}).
		Register(LatexRenderer{}).
		Register(ConsoleTextRenderer{}).
		Register(TextRenderer{}).
		Build()
}

// Func adapts a plain function to Renderer.
type Func struct {
	Types []string
	Fn    func(mimetype, data string) (*html.Node, error)
}

func (f Func) MimeTypes() []string { return f.Types }

func (f Func) Render(mimetype, data string) (*html.Node, error) { return f.Fn(mimetype, data) }

// JavaScriptRenderer emits the payload as a script element.
type JavaScriptRenderer struct{}

func (JavaScriptRenderer) MimeTypes() []string { return []string{core.MimeJavaScript} }

func (JavaScriptRenderer) Render(_, data string) (*html.Node, error) {
	n := dom.Element("script")
	dom.SetAttr(n, "type", "text/javascript")
	n.AppendChild(dom.Text(data))
	return n, nil
}

// MarkdownRenderer converts markdown with GFM extensions and highlighted
// fenced code.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer configures goldmark with the given chroma style.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles, no stylesheet needed
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(), // notebooks embed raw HTML in markdown
		),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) MimeTypes() []string { return []string{core.MimeMarkdown} }

func (r *MarkdownRenderer) Render(_, data string) (*html.Node, error) {
	s, err := r.Convert(data)
	if err != nil {
		return nil, err
	}
	return fragment(s, "jp-RenderedMarkdown")
}

// Convert returns the HTML for a markdown source.
func (r *MarkdownRenderer) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return buf.String(), nil
}

// HTMLRenderer parses the payload into a node tree.
type HTMLRenderer struct{}

func (HTMLRenderer) MimeTypes() []string { return []string{core.MimeHTML} }

func (HTMLRenderer) Render(_, data string) (*html.Node, error) {
	return fragment(data, "jp-RenderedHTML")
}

// ImageRenderer embeds base64 payloads as data URIs.
type ImageRenderer struct{}

func (ImageRenderer) MimeTypes() []string {
	return []string{core.MimePNG, core.MimeJPEG, core.MimeGIF}
}

func (ImageRenderer) Render(mimetype, data string) (*html.Node, error) {
	payload := strings.Join(strings.Fields(data), "")
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	n := dom.Element("img", "jp-RenderedImage")
	dom.SetAttr(n, "src", "data:"+mimetype+";base64,"+payload)
	return n, nil
}

// SVGRenderer inlines the SVG document.
type SVGRenderer struct{}

func (SVGRenderer) MimeTypes() []string { return []string{core.MimeSVG} }

func (SVGRenderer) Render(_, data string) (*html.Node, error) {
	return fragment(data, "jp-RenderedSVG")
}

// LatexRenderer keeps the source as text for client-side typesetting.
type LatexRenderer struct{}

func (LatexRenderer) MimeTypes() []string { return []string{core.MimeLaTeX} }

func (LatexRenderer) Render(_, data string) (*html.Node, error) {
	return dom.ElementWithText("div", data, "jp-RenderedLatex"), nil
}

// ConsoleTextRenderer renders terminal output with escape sequences removed.
type ConsoleTextRenderer struct{}

func (ConsoleTextRenderer) MimeTypes() []string { return []string{core.MimeConsoleText} }

func (ConsoleTextRenderer) Render(_, data string) (*html.Node, error) {
	return dom.ElementWithText("pre", ansi.Strip(data), "jp-RenderedText"), nil
}

// TextRenderer renders plain text preformatted.
type TextRenderer struct{}

func (TextRenderer) MimeTypes() []string { return []string{core.MimePlain} }

func (TextRenderer) Render(_, data string) (*html.Node, error) {
	return dom.ElementWithText("pre", data, "jp-RenderedText"), nil
}

// fragment parses s and wraps the result in a div carrying class.
func fragment(s, class string) (*html.Node, error) {
	nodes, err := dom.ParseFragment(s)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	wrapper := dom.Element("div", class)
	dom.AppendChildren(wrapper, nodes...)
	return wrapper, nil
}
