// Package server provides a local HTTP server for browsing notebooks and
// rendering their outputs on the fly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sonnes/nbout/core"
	"github.com/sonnes/nbout/reader"
	"github.com/sonnes/nbout/reader/ipynb"
	htmlrender "github.com/sonnes/nbout/render/html"
)

// Server serves the notebooks in a directory over HTTP for local browsing.
type Server struct {
	// Reader provides access to notebook files.
	Reader reader.Reader
	// Dir is the directory notebooks are read from on every request.
	Dir string
	// Port is the TCP port to listen on.
	Port int
	// NewRenderer builds the page renderer for one request. The logger
	// carries the request ID.
	NewRenderer func(logger *log.Logger) *htmlrender.Renderer
	// Transformers run on each notebook before rendering.
	Transformers []core.Transformer
}

// Handler routes the index and per-notebook pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /notebook/{name}", s.handleNotebook)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving", "addr", "http://localhost"+srv.Addr, "dir", s.Dir)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req)
	notebooks, err := s.Reader.ReadDir(s.Dir)
	if err != nil {
		logger.Error("read notebooks", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderer := s.NewRenderer(logger)
	renderer.NotebookHref = notebookHref
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.RenderIndex(w, notebooks); err != nil {
		logger.Error("render index", "error", err)
	}
}

func (s *Server) handleNotebook(w http.ResponseWriter, req *http.Request) {
	logger := requestLogger(req)
	name := req.PathValue("name")
	if name == "" || name == ".." || filepath.Base(name) != name {
		http.NotFound(w, req)
		return
	}

	nb, err := s.Reader.ReadFile(filepath.Join(s.Dir, name+ipynb.Ext))
	if err != nil {
		logger.Warn("read notebook", "name", name, "error", err)
		http.NotFound(w, req)
		return
	}
	if err := core.Chain(nb, s.Transformers...); err != nil {
		logger.Error("transform notebook", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.NewRenderer(logger).Render(w, nb); err != nil {
		logger.Error("render notebook", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// notebookHref links to the route serving nb's file. Titles come from
// notebook metadata and may not match the file name.
func notebookHref(nb *core.Notebook) string {
	name := strings.TrimSuffix(filepath.Base(nb.Path), ipynb.Ext)
	return "/notebook/" + url.PathEscape(name)
}

// requestLogger tags every diagnostic raised while serving req with a
// request ID.
func requestLogger(req *http.Request) *log.Logger {
	logger := log.Default().With("request_id", uuid.NewString(), "path", req.URL.Path)
	logger.Debug("request")
	return logger
}
