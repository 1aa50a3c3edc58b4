// Package stream replays JSONL output streams: one nbformat output object
// per line, interleaved with clear_output requests, as a kernel would emit
// them while a cell runs.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sonnes/nbout/core"
)

// ClearOutput is the output_type of a clear request line.
const ClearOutput = "clear_output"

// maxLineSize is the maximum JSONL line size (16 MB). Image payloads easily
// exceed the default 64 KB bufio.Scanner buffer.
const maxLineSize = 16 << 20

// Sink receives replayed records. *outputarea.Area implements it.
type Sink interface {
	Add(o core.Output) error
	Clear(wait bool)
}

type header struct {
	OutputType string `json:"output_type"`
	Wait       bool   `json:"wait"`
}

// Play feeds every line of r to sink in order and returns the number of
// lines applied. It stops at the first malformed line or sink error.
func Play(ctx context.Context, r io.Reader, sink Sink) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return n, err
		}
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}

		var h header
		if err := json.Unmarshal(data, &h); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if h.OutputType == ClearOutput {
			sink.Clear(h.Wait)
			n++
			continue
		}

		o, err := core.DecodeOutput(data)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := sink.Add(o); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("scan output stream: %w", err)
	}
	return n, nil
}
