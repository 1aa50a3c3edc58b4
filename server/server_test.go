package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/reader/ipynb"
	htmlrender "github.com/sonnes/nbout/render/html"
	"github.com/sonnes/nbout/rendermime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {"title": "Quarterly Report"},
 "cells": [
  {
   "cell_type": "code",
   "execution_count": 3,
   "metadata": {},
   "source": "1 + 1",
   "outputs": [
    {"output_type": "execute_result", "execution_count": 3, "metadata": {}, "data": {"text/plain": "2"}}
   ]
  }
 ]
}`

type failingTransformer struct{}

func (failingTransformer) Transform(*core.Notebook) error { return errors.New("boom") }

func newTestServer(t *testing.T, transformers ...core.Transformer) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analysis.ipynb"), []byte(notebook), 0o644))

	reg := rendermime.Default()
	s := &Server{
		Reader: &ipynb.Reader{},
		Dir:    dir,
		NewRenderer: func(logger *log.Logger) *htmlrender.Renderer {
			return htmlrender.New(reg, htmlrender.WithLogger(logger))
		},
		Transformers: transformers,
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandler(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		contains   []string
	}{
		{
			name:       "index",
			path:       "/",
			wantStatus: http.StatusOK,
			contains:   []string{`href="/notebook/analysis"`, "Quarterly Report"},
		},
		{
			name:       "notebook",
			path:       "/notebook/analysis",
			wantStatus: http.StatusOK,
			contains:   []string{"jp-OutputArea-executeResult", "jp-OutputArea-result"},
		},
		{name: "missing", path: "/notebook/nope", wantStatus: http.StatusNotFound},
		{name: "traversal", path: "/notebook/..%2Fetc", wantStatus: http.StatusNotFound},
		{name: "unknown route", path: "/other", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, srv, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestIndexLinksResolve(t *testing.T) {
	srv := newTestServer(t)
	_, index := get(t, srv, "/")

	m := regexp.MustCompile(`href="(/notebook/[^"]+)"`).FindStringSubmatch(index)
	require.Len(t, m, 2, "no notebook link in index")
	assert.NotContains(t, m[1], "Quarterly")

	status, body := get(t, srv, m[1])
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Quarterly Report")
}

func TestNotebookHref(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/q3.ipynb", "/notebook/q3"},
		{"/data/my notes.ipynb", "/notebook/my%20notes"},
	}
	for _, tt := range tests {
		nb := &core.Notebook{Path: tt.path, Title: "Quarterly Report"}
		assert.Equal(t, tt.want, notebookHref(nb))
	}
}

func TestHandlerTransformError(t *testing.T) {
	srv := newTestServer(t, failingTransformer{})
	status, _ := get(t, srv, "/notebook/analysis")
	assert.Equal(t, http.StatusInternalServerError, status)
}
