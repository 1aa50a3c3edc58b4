// Package ipynb reads Jupyter notebooks in nbformat v4 JSON.
package ipynb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"golang.org/x/sync/errgroup"
)

// Ext is the notebook file extension.
const Ext = ".ipynb"

// Reader reads .ipynb files.
type Reader struct{}

// Raw JSON deserialization types. These mirror the nbformat document.

type rawNotebook struct {
	NBFormat      int         `json:"nbformat"`
	NBFormatMinor int         `json:"nbformat_minor"`
	Metadata      rawMetadata `json:"metadata"`
	Cells         []rawCell   `json:"cells"`
}

type rawMetadata struct {
	KernelSpec struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Language    string `json:"language"`
	} `json:"kernelspec"`
	LanguageInfo struct {
		Name string `json:"name"`
	} `json:"language_info"`
	Title string `json:"title"`
}

type rawCell struct {
	CellType       string            `json:"cell_type"`
	Source         json.RawMessage   `json:"source"`
	ExecutionCount *int              `json:"execution_count"`
	Outputs        []json.RawMessage `json:"outputs"`
}

// ReadFile parses a single notebook file.
func (r *Reader) ReadFile(path string) (*core.Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open notebook: %w", err)
	}
	defer f.Close()

	nb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nb.Path = path
	if nb.Title == "" {
		nb.Title = strings.TrimSuffix(filepath.Base(path), Ext)
	}
	return nb, nil
}

// ReadDir returns all notebooks directly in dir, sorted by file name.
// Files are parsed concurrently. Unparseable files are logged and skipped.
func (r *Reader) ReadDir(dir string) ([]*core.Notebook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read notebook directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	parsed := make([]*core.Notebook, len(names))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			nb, err := r.ReadFile(filepath.Join(dir, name))
			if err != nil {
				log.Warn("skipping notebook", "file", name, "error", err)
				return nil
			}
			parsed[i] = nb
			return nil
		})
	}
	//nolint:errcheck
	g.Wait()

	notebooks := make([]*core.Notebook, 0, len(parsed))
	for _, nb := range parsed {
		if nb != nil {
			notebooks = append(notebooks, nb)
		}
	}
	return notebooks, nil
}

// Decode parses an nbformat v4 document from r.
func Decode(r io.Reader) (*core.Notebook, error) {
	var raw rawNotebook
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	if raw.NBFormat != 4 {
		return nil, fmt.Errorf("unsupported nbformat %d", raw.NBFormat)
	}

	nb := &core.Notebook{
		Title:         raw.Metadata.Title,
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
		Metadata: core.NotebookMetadata{
			KernelName:  raw.Metadata.KernelSpec.Name,
			DisplayName: raw.Metadata.KernelSpec.DisplayName,
			Language:    raw.Metadata.LanguageInfo.Name,
		},
	}
	if nb.Metadata.Language == "" {
		nb.Metadata.Language = raw.Metadata.KernelSpec.Language
	}

	for i, rc := range raw.Cells {
		cell, err := decodeCell(rc)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func decodeCell(rc rawCell) (core.Cell, error) {
	source, err := decodeSource(rc.Source)
	if err != nil {
		return core.Cell{}, err
	}
	cell := core.Cell{
		Type:           core.CellType(rc.CellType),
		Source:         source,
		ExecutionCount: rc.ExecutionCount,
	}
	for j, ro := range rc.Outputs {
		o, err := core.DecodeOutput(ro)
		if err != nil {
			return core.Cell{}, fmt.Errorf("output %d: %w", j, err)
		}
		cell.Outputs = append(cell.Outputs, o)
	}
	return cell, nil
}

// decodeSource accepts a string or a list of lines.
func decodeSource(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return "", fmt.Errorf("decode source: %w", err)
	}
	return strings.Join(lines, ""), nil
}
