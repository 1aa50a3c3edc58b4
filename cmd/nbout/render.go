package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/outputarea"
	"github.com/sonnes/nbout/reader/stream"
	"github.com/urfave/cli/v3"
)

func transformFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-redact",
			Usage: "Disable redaction of secrets and PII",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Allowlist of rules to redact. Example: --redact=secrets,pii",
		},
		&cli.StringFlag{
			Name:  "compact",
			Usage: "Summarize long outputs: on, or no-images to also drop image payloads",
		},
	}
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a notebook, or a JSONL output stream",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to a .ipynb notebook, or a .jsonl output stream with --stream",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "o",
				Usage: "Output format: html, terminal, json",
				Value: "terminal",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "Treat --file as one output record per line and print the output area HTML",
			},
		}, transformFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("stream") {
				return a.renderStream(ctx, cmd, os.Stdout)
			}

			nb, err := a.reader.ReadFile(cmd.String("file"))
			if err != nil {
				return err
			}

			transformers, err := a.transformers(cmd)
			if err != nil {
				return err
			}
			if err := core.Chain(nb, transformers...); err != nil {
				return fmt.Errorf("transform: %w", err)
			}

			rnd, err := a.renderer(cmd.String("o"))
			if err != nil {
				return err
			}
			if err := rnd.Render(os.Stdout, nb); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return nil
		},
	}
}

// renderStream replays a JSONL output stream into a single output area and
// writes the container HTML to w.
func (a *app) renderStream(ctx context.Context, cmd *cli.Command, w io.Writer) error {
	f, err := os.Open(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer f.Close()

	area := outputarea.New(a.registry, outputarea.WithLogger(log.Default()))
	sink := filterSink{Sink: area}
	redactor, err := newRedactor(cmd, a.cfg.Redact)
	if err != nil {
		return err
	}
	if redactor != nil {
		sink.filters = append(sink.filters, redactor.RedactOutput)
	}
	compactor, err := newCompactor(a.compactMode(cmd))
	if err != nil {
		return err
	}
	if compactor != nil {
		sink.filters = append(sink.filters, compactor.CompactOutput)
	}

	n, err := stream.Play(ctx, f, sink)
	if err != nil {
		return err
	}
	log.Debug("replayed output stream", "records", n, "outputs", area.Len())

	out, err := area.HTML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// filterSink rewrites each record before it reaches the output area,
// applying the same redaction and compaction as whole-notebook rendering.
type filterSink struct {
	stream.Sink
	filters []func(core.Output) core.Output
}

func (s filterSink) Add(o core.Output) error {
	for _, f := range s.filters {
		o = f(o)
	}
	return s.Sink.Add(o)
}
