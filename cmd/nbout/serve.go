package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	htmlrender "github.com/sonnes/nbout/render/html"
	"github.com/sonnes/nbout/server"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the notebooks in a directory for browsing in a local web UI",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory containing .ipynb files",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: 8080,
			},
		}, transformFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			transformers, err := a.transformers(cmd)
			if err != nil {
				return err
			}

			srv := a.server(cmd.String("dir"), transformers...)
			if cmd.IsSet("port") {
				srv.Port = int(cmd.Int("port"))
			}
			return srv.ListenAndServe(ctx)
		},
	}
}

func (a *app) server(dir string, transformers ...core.Transformer) *server.Server {
	return &server.Server{
		Reader: a.reader,
		Dir:    dir,
		Port:   a.cfg.Port,
		NewRenderer: func(logger *log.Logger) *htmlrender.Renderer {
			return a.htmlRenderer(htmlrender.WithLogger(logger))
		},
		Transformers: transformers,
	}
}
