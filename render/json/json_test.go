package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/reader/ipynb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{"a\n", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "b\n"}, splitLines("a\nb\n"))
}

func TestRenderReadsBack(t *testing.T) {
	count := 2
	nb := &core.Notebook{
		NBFormat:      4,
		NBFormatMinor: 5,
		Metadata:      core.NotebookMetadata{KernelName: "python3", DisplayName: "Python 3", Language: "python"},
		Cells: []core.Cell{
			{Type: core.CellMarkdown, Source: "# Title\ntext"},
			{
				Type:           core.CellCode,
				Source:         "x = 1\nx",
				ExecutionCount: &count,
				Outputs: []core.Output{
					core.Stream{Name: core.Stdout, Text: "hello\n"},
					core.ExecuteResult{ExecutionCount: &count, Data: core.Bundle{core.MimePlain: "1"}},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, nb))
	assert.Contains(t, buf.String(), `"cell_type": "markdown"`)

	got, err := ipynb.Decode(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, nb.Metadata, got.Metadata)
	require.Len(t, got.Cells, 2)
	assert.Equal(t, "# Title\ntext", got.Cells[0].Source)
	assert.Equal(t, nb.Cells[1].Source, got.Cells[1].Source)
	assert.Equal(t, core.Stream{Name: core.Stdout, Text: "hello\n"}, got.Cells[1].Outputs[0])
	res := got.Cells[1].Outputs[1].(core.ExecuteResult)
	assert.Equal(t, "1", res.Data[core.MimePlain])
}
