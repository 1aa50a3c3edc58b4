package stream

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/dom"
	"github.com/sonnes/nbout/outputarea"
	"github.com/sonnes/nbout/rendermime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
	err    error
}

func (r *recorder) Add(o core.Output) error {
	r.events = append(r.events, "add:"+string(o.OutputType()))
	return r.err
}

func (r *recorder) Clear(wait bool) {
	if wait {
		r.events = append(r.events, "clear:wait")
		return
	}
	r.events = append(r.events, "clear")
}

func TestPlayOrder(t *testing.T) {
	input := strings.Join([]string{
		`{"output_type":"stream","name":"stdout","text":"1"}`,
		``,
		`{"output_type":"clear_output","wait":true}`,
		`{"output_type":"display_data","data":{"text/plain":"x"}}`,
		`{"output_type":"clear_output"}`,
		`{"output_type":"error","ename":"E","evalue":"v","traceback":[]}`,
	}, "\n")

	rec := &recorder{}
	n, err := Play(context.Background(), strings.NewReader(input), rec)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"add:stream", "clear:wait", "add:display_data", "clear", "add:error"}, rec.events)
}

func TestPlayMalformedLine(t *testing.T) {
	input := "{\"output_type\":\"stream\",\"name\":\"stdout\",\"text\":\"1\"}\n{not json}\n"
	rec := &recorder{}
	n, err := Play(context.Background(), strings.NewReader(input), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}

func TestPlaySinkError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{err: boom}
	_, err := Play(context.Background(), strings.NewReader(`{"output_type":"stream","name":"stdout","text":"1"}`), rec)
	assert.True(t, errors.Is(err, boom))
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err := Play(ctx, strings.NewReader(`{"output_type":"stream","name":"stdout","text":"1"}`), rec)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, rec.events)
}

func TestPlayIntoArea(t *testing.T) {
	input := strings.Join([]string{
		`{"output_type":"stream","name":"stdout","text":"progress 10%"}`,
		`{"output_type":"clear_output","wait":true}`,
		`{"output_type":"stream","name":"stdout","text":"progress 100%"}`,
	}, "\n")

	var buf bytes.Buffer
	area := outputarea.New(rendermime.Default(), outputarea.WithLogger(log.New(&buf)))
	_, err := Play(context.Background(), strings.NewReader(input), area)
	require.NoError(t, err)

	res := dom.FindAll(area.Node(), dom.ByClass(outputarea.ResultClass))
	require.Len(t, res, 1)
	assert.Equal(t, "progress 100%", dom.TextContent(res[0]))
	assert.Equal(t, 2, area.Len())
	assert.Empty(t, buf.String())
}
