package core

// Notebook is a parsed nbformat v4 document.
type Notebook struct {
	Path          string           `json:"path,omitempty"`
	Title         string           `json:"title,omitempty"`
	NBFormat      int              `json:"nbformat"`
	NBFormatMinor int              `json:"nbformat_minor"`
	Metadata      NotebookMetadata `json:"metadata"`
	Cells         []Cell           `json:"cells"`
}

// NotebookMetadata holds the subset of notebook metadata the renderers use.
type NotebookMetadata struct {
	KernelName  string `json:"kernel_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Language    string `json:"language,omitempty"`
}

// CellType enumerates notebook cell kinds.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Cell is a single notebook cell. Only code cells carry outputs.
type Cell struct {
	Type           CellType `json:"cell_type"`
	Source         string   `json:"source"`
	ExecutionCount *int     `json:"execution_count,omitempty"`
	Outputs        []Output `json:"-"`
}

// OutputCount returns the total number of outputs across all code cells.
func (nb *Notebook) OutputCount() int {
	n := 0
	for _, c := range nb.Cells {
		n += len(c.Outputs)
	}
	return n
}
