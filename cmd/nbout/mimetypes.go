package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sonnes/nbout/rendermime"
	"github.com/urfave/cli/v3"
)

func mimetypesCmd() *cli.Command {
	return &cli.Command{
		Name:  "mimetypes",
		Usage: "List MIME types in renderer preference order",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return writeMimeTypes(cmd.Root().Writer, a.registry)
		},
	}
}

// writeMimeTypes prints reg's MIME types in preference order with the
// renderer bound to each.
func writeMimeTypes(w io.Writer, reg *rendermime.Registry) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("#", "MIME TYPE", "RENDERER")
	for i, m := range reg.Order() {
		r, _ := reg.Lookup(m)
		name := strings.TrimPrefix(fmt.Sprintf("%T", r), "*")
		t.Row(strconv.Itoa(i+1), m, name)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
