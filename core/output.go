// Package core defines the notebook output model: the closed set of output
// records a kernel produces, the MIME bundles they carry, and the notebook
// structure that holds them. Readers produce these values and renderers
// consume them.
package core

import (
	"errors"
	"sort"
)

// ErrUnknownOutputType is reported for records whose output_type is not one
// of the four nbformat kinds.
var ErrUnknownOutputType = errors.New("unknown output type")

// OutputType is the nbformat output_type tag.
type OutputType string

const (
	OutputStream        OutputType = "stream"
	OutputDisplayData   OutputType = "display_data"
	OutputExecuteResult OutputType = "execute_result"
	OutputError         OutputType = "error"
)

// Well-known MIME types.
const (
	MimeConsoleText = "application/vnd.jupyter.console-text"
	MimeJavaScript  = "application/javascript"
	MimeJSON        = "application/json"
	MimeMarkdown    = "text/markdown"
	MimeHTML        = "text/html"
	MimePNG         = "image/png"
	MimeJPEG        = "image/jpeg"
	MimeGIF         = "image/gif"
	MimeSVG         = "image/svg+xml"
	MimeLaTeX       = "text/latex"
	MimePlain       = "text/plain"
)

// StreamName identifies the stream a Stream output was written to.
type StreamName string

const (
	Stdout StreamName = "stdout"
	Stderr StreamName = "stderr"
)

// Output is one cell-execution output record. The set of implementations is
// closed: Stream, DisplayData, ExecuteResult, Error and Unknown.
type Output interface {
	OutputType() OutputType
	isOutput()
}

// Stream is text written to stdout or stderr.
type Stream struct {
	Name StreamName
	Text string
}

// DisplayData is a rich payload published by display().
type DisplayData struct {
	Data     Bundle
	Metadata map[string]any
}

// ExecuteResult is the value of the last expression in a cell.
type ExecuteResult struct {
	ExecutionCount *int
	Data           Bundle
	Metadata       map[string]any
}

// Error is an uncaught exception.
type Error struct {
	EName     string
	EValue    string
	Traceback []string
}

// Unknown preserves a record whose output_type is not recognized, so that
// consumers can report it instead of silently dropping it.
type Unknown struct {
	Type string
	Raw  []byte
}

func (Stream) OutputType() OutputType        { return OutputStream }
func (DisplayData) OutputType() OutputType   { return OutputDisplayData }
func (ExecuteResult) OutputType() OutputType { return OutputExecuteResult }
func (Error) OutputType() OutputType         { return OutputError }
func (u Unknown) OutputType() OutputType     { return OutputType(u.Type) }

func (Stream) isOutput()        {}
func (DisplayData) isOutput()   {}
func (ExecuteResult) isOutput() {}
func (Error) isOutput()         {}
func (Unknown) isOutput()       {}

// Bundle maps a MIME type to its payload. One logical output may offer
// several equivalent representations.
type Bundle map[string]string

// MimeTypes returns the bundle's MIME types in sorted order.
func (b Bundle) MimeTypes() []string {
	types := make([]string, 0, len(b))
	for m := range b {
		types = append(types, m)
	}
	sort.Strings(types)
	return types
}

// Clone returns a shallow copy of b.
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	out := make(Bundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
