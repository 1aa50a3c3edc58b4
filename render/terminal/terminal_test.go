package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/sonnes/nbout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func render(t *testing.T, nb *core.Notebook) string {
	t.Helper()
	r := &Renderer{Width: 100}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, nb))
	return ansi.Strip(buf.String())
}

func TestRenderHeader(t *testing.T) {
	out := render(t, &core.Notebook{
		Title:    "analysis",
		Metadata: core.NotebookMetadata{DisplayName: "Python 3"},
		Cells: []core.Cell{
			{Type: core.CellCode, Outputs: []core.Output{core.Stream{Name: core.Stdout, Text: "x"}}},
		},
	})
	assert.Contains(t, out, "analysis")
	assert.Contains(t, out, "Python 3  1 cells  1 outputs")
}

func TestRenderUntitled(t *testing.T) {
	assert.Contains(t, render(t, &core.Notebook{}), "Untitled notebook")
}

func TestRenderCells(t *testing.T) {
	out := render(t, &core.Notebook{Cells: []core.Cell{
		{Type: core.CellMarkdown, Source: "# Heading"},
		{
			Type:           core.CellCode,
			Source:         "print('hi')\n40 + 2",
			ExecutionCount: intPtr(3),
			Outputs: []core.Output{
				core.Stream{Name: core.Stdout, Text: "hi\n"},
				core.Stream{Name: core.Stderr, Text: "careful\n"},
				core.ExecuteResult{ExecutionCount: intPtr(3), Data: core.Bundle{core.MimePlain: "42", core.MimeHTML: "<b>42</b>"}},
			},
		},
		{
			Type:   core.CellCode,
			Source: "1/0",
			Outputs: []core.Output{
				core.Error{EName: "ZeroDivisionError", EValue: "division by zero"},
				core.Error{EName: "X", EValue: "Y", Traceback: []string{"\x1b[31mTraceback\x1b[0m", "X: Y"}},
			},
		},
	}})

	for _, s := range []string{
		"# Heading",
		"In [3]:",
		"  print('hi')",
		"  40 + 2",
		"  hi",
		"  careful",
		"Out[3]:",
		"  42",
		"In [ ]:",
		"  ZeroDivisionError: division by zero",
		"  Traceback\n  X: Y",
	} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "<b>42</b>", "plain text wins over html")
	assert.Equal(t, 3, strings.Count(out, strings.Repeat("─", 72)))
}

func TestRenderRichOnlyBundle(t *testing.T) {
	out := render(t, &core.Notebook{Cells: []core.Cell{{
		Type: core.CellCode,
		Outputs: []core.Output{
			core.DisplayData{Data: core.Bundle{core.MimePNG: strings.Repeat("A", 2048), core.MimeSVG: "<svg/>"}},
			core.Unknown{Type: "widget"},
		},
	}}})
	assert.Contains(t, out, "[image/png (2,048 bytes), image/svg+xml (6 bytes)]")
	assert.Contains(t, out, "[unhandled output: widget]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "first", truncate("first\nsecond", 10))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,228,873", formatNumber(1228873))
	assert.Equal(t, "-1,000", formatNumber(-1000))
}
