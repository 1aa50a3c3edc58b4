package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/config"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "nbout",
		Usage: "Render Jupyter notebook outputs to HTML, the terminal, or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "error",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config.toml (default ~/.config/nbout/config.toml)",
			},
			&cli.BoolFlag{
				Name:  "untrusted",
				Usage: "Do not render JavaScript or HTML outputs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			lvl := cfg.Log
			if cmd.IsSet("log") {
				lvl = cmd.String("log")
			}
			level, err := log.ParseLevel(lvl)
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			if cfg.Source != "" {
				log.Debug("loaded config", "path", cfg.Source)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			renderCmd(),
			serveCmd(),
			mimetypesCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
