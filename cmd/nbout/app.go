package main

import (
	"fmt"

	"github.com/sonnes/nbout/compact"
	"github.com/sonnes/nbout/config"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/reader"
	"github.com/sonnes/nbout/reader/ipynb"
	"github.com/sonnes/nbout/redact"
	"github.com/sonnes/nbout/render"
	htmlrender "github.com/sonnes/nbout/render/html"
	jsonrender "github.com/sonnes/nbout/render/json"
	"github.com/sonnes/nbout/render/terminal"
	"github.com/sonnes/nbout/rendermime"
	"github.com/urfave/cli/v3"
)

// app holds the configuration, the shared MIME registry, and the renderer
// table used by CLI commands.
type app struct {
	cfg       config.Config
	registry  *rendermime.Registry
	reader    reader.Reader
	renderers map[string]func() render.Renderer
}

// newApp loads configuration and builds the registry once; every output area
// created by a command shares it.
func newApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	trusted := cfg.Trusted
	if cmd.Bool("untrusted") {
		trusted = false
	}
	reg := rendermime.Default(
		rendermime.WithHighlightStyle(cfg.HighlightStyle),
		rendermime.WithTrusted(trusted),
		rendermime.WithoutMimeTypes(cfg.DisableMimeTypes...),
	)

	a := &app{cfg: cfg, registry: reg, reader: &ipynb.Reader{}}
	a.renderers = map[string]func() render.Renderer{
		"terminal": func() render.Renderer { return terminal.New() },
		"html":     func() render.Renderer { return a.htmlRenderer() },
		"json":     func() render.Renderer { return jsonrender.New() },
	}
	return a, nil
}

func (a *app) htmlRenderer(opts ...htmlrender.Option) *htmlrender.Renderer {
	opts = append([]htmlrender.Option{htmlrender.WithHighlightStyle(a.cfg.HighlightStyle)}, opts...)
	return htmlrender.New(a.registry, opts...)
}

func (a *app) renderer(name string) (render.Renderer, error) {
	fn, ok := a.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(), nil
}

// transformers builds the redaction and compaction steps from flags, with
// the config file supplying defaults.
func (a *app) transformers(cmd *cli.Command) ([]core.Transformer, error) {
	var out []core.Transformer

	redactor, err := newRedactor(cmd, a.cfg.Redact)
	if err != nil {
		return nil, err
	}
	if redactor != nil {
		out = append(out, redactor)
	}

	compactor, err := newCompactor(a.compactMode(cmd))
	if err != nil {
		return nil, err
	}
	if compactor != nil {
		out = append(out, compactor)
	}
	return out, nil
}

// compactMode is the --compact flag, or the config value when unset.
func (a *app) compactMode(cmd *cli.Command) string {
	if cmd.IsSet("compact") {
		return cmd.String("compact")
	}
	return a.cfg.Compact
}

// newRedactor builds a Redactor from CLI flags. Returns nil when --no-redact is set.
func newRedactor(cmd *cli.Command, defaults []string) (*redact.Redactor, error) {
	if cmd.Bool("no-redact") {
		return nil, nil
	}

	rules := cmd.StringSlice("redact")
	if len(rules) == 0 {
		rules = defaults
	}

	cfg := redact.Config{}
	if len(rules) == 0 {
		cfg.Secrets = true
		cfg.PII = true
	}
	for _, r := range rules {
		switch r {
		case "secrets":
			cfg.Secrets = true
		case "pii":
			cfg.PII = true
		default:
			return nil, fmt.Errorf("unknown redaction rule %q", r)
		}
	}

	return redact.New(cfg), nil
}

// newCompactor maps a --compact value to a Compactor. An empty mode disables
// compaction.
func newCompactor(mode string) (*compact.Compactor, error) {
	switch mode {
	case "":
		return nil, nil
	case "on":
		return compact.New(compact.Config{}), nil
	case "no-images":
		return compact.New(compact.Config{StripImages: true}), nil
	default:
		return nil, fmt.Errorf("unknown compact mode %q", mode)
	}
}
