package ipynb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonnes/nbout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {
  "kernelspec": {"name": "python3", "display_name": "Python 3", "language": "python"},
  "language_info": {"name": "python"}
 },
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Title\n", "Some *text*"]},
  {
   "cell_type": "code",
   "execution_count": 1,
   "metadata": {},
   "source": "print('hi')\n1 + 1",
   "outputs": [
    {"output_type": "stream", "name": "stdout", "text": ["hi\n"]},
    {"output_type": "execute_result", "execution_count": 1, "data": {"text/plain": ["2"]}, "metadata": {}}
   ]
  },
  {
   "cell_type": "code",
   "execution_count": 2,
   "metadata": {},
   "source": "raise ValueError('bad')",
   "outputs": [
    {"output_type": "error", "ename": "ValueError", "evalue": "bad", "traceback": ["Traceback", "ValueError: bad"]}
   ]
  }
 ]
}`

func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), "analysis.ipynb", sampleNotebook)

	nb, err := (&Reader{}).ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "analysis", nb.Title)
	assert.Equal(t, path, nb.Path)
	assert.Equal(t, 4, nb.NBFormat)
	assert.Equal(t, "python3", nb.Metadata.KernelName)
	assert.Equal(t, "python", nb.Metadata.Language)
	require.Len(t, nb.Cells, 3)

	assert.Equal(t, core.CellMarkdown, nb.Cells[0].Type)
	assert.Equal(t, "# Title\nSome *text*", nb.Cells[0].Source)
	assert.Empty(t, nb.Cells[0].Outputs)

	code := nb.Cells[1]
	assert.Equal(t, core.CellCode, code.Type)
	require.NotNil(t, code.ExecutionCount)
	assert.Equal(t, 1, *code.ExecutionCount)
	require.Len(t, code.Outputs, 2)
	assert.Equal(t, core.Stream{Name: core.Stdout, Text: "hi\n"}, code.Outputs[0])
	res, ok := code.Outputs[1].(core.ExecuteResult)
	require.True(t, ok)
	assert.Equal(t, "2", res.Data[core.MimePlain])

	assert.Equal(t, 3, nb.OutputCount())
}

func TestDecodeRejectsOldFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"nbformat": 3, "worksheets": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported nbformat 3")
}

func TestDecodeBadOutput(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"nbformat": 4, "cells": [{"cell_type": "code", "source": "", "outputs": [{"name": "x"}]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cell 0: output 0")
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, dir, "b.ipynb", sampleNotebook)
	writeNotebook(t, dir, "a.ipynb", sampleNotebook)
	writeNotebook(t, dir, "broken.ipynb", `{`)
	writeNotebook(t, dir, "notes.txt", "not a notebook")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ipynb"), 0o755))

	nbs, err := (&Reader{}).ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, nbs, 2)
	assert.Equal(t, "a", nbs[0].Title)
	assert.Equal(t, "b", nbs[1].Title)
}

func TestReadFileMissing(t *testing.T) {
	_, err := (&Reader{}).ReadFile(filepath.Join(t.TempDir(), "missing.ipynb"))
	assert.Error(t, err)
}
