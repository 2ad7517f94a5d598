// Package server serves rendered documents as HTML for previewing.
//
// The server runs the pipeline in memory and never writes files. Documents
// are addressed by their output path, so relative links between documents
// keep working in the browser:
//
//	GET /               document index
//	GET /docs/{path}    document rendered to HTML
//	GET /raw/{path}     document Markdown
//	POST /reload        re-run the pipeline
//	GET /healthz        liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/pipeline"
	"github.com/zendapi/moxygen/pkg/render"
)

// Server is the preview HTTP server.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router

	mu     sync.RWMutex
	docs   map[string]pipeline.Output
	result *pipeline.Result
}

// New creates a server for the given run options. Call [Server.Reload]
// before serving to populate the documents.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		opts:   opts,
		logger: logger,
		docs:   make(map[string]pipeline.Output),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/docs/*", s.handleDoc)
	r.Get("/raw/*", s.handleRaw)
	r.Post("/reload", s.handleReload)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reload runs the pipeline and replaces the served documents. On failure
// the previous documents stay in place.
func (s *Server) Reload(ctx context.Context) error {
	result, err := s.runner.Run(ctx, s.opts)
	if err != nil {
		return err
	}

	docs := make(map[string]pipeline.Output, len(result.Outputs))
	for _, out := range result.Outputs {
		docs[docKey(out.Path)] = out
	}

	s.mu.Lock()
	s.docs = docs
	s.result = result
	s.mu.Unlock()

	s.logger.Info("documents loaded", "documents", len(docs), "run", result.RunID[:8])
	return nil
}

// Documents returns the served document paths in sorted order.
func (s *Server) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// docKey maps an output path to the URL path it is served under.
func docKey(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (pipeline.Output, bool) {
	path := chi.URLParam(r, "*")
	if err := errs.ValidatePath(path); err != nil {
		http.Error(w, errs.UserMessage(err), http.StatusBadRequest)
		return pipeline.Output{}, false
	}

	s.mu.RLock()
	out, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, fmt.Sprintf("document %s not found", path), http.StatusNotFound)
		return pipeline.Output{}, false
	}
	return out, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	var stats pipeline.Stats
	if s.result != nil {
		stats = s.result.Stats
	}
	s.mu.RUnlock()

	data := struct {
		Documents []string
		Stats     pipeline.Stats
	}{s.Documents(), stats}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	out, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, err := render.ToHTML(out.Content)
	if err != nil {
		http.Error(w, "convert document", http.StatusInternalServerError)
		s.logger.Error("convert document", "path", out.Path, "err", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = docPage.Execute(w, struct {
		Title    string
		Body     template.HTML
		Problems []render.Problem
	}{docKey(out.Path), template.HTML(body), out.Problems})
	if err != nil {
		s.logger.Error("render page", "path", out.Path, "err", err)
	}
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	out, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(out.Content))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		s.logger.Error("reload", "err", err)
		http.Error(w, errs.UserMessage(err), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
