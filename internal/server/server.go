// Package server exposes searches over HTTP: an HTML page for people and a
// JSON endpoint for scripts. Both read the corpus from a corpus.Store, so a
// reload is picked up by the next request.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/search"
)

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to searches over the stored corpus. The
// searcher must render with highlight.HTMLMarkers.
type Server struct {
	store    *corpus.Store
	searcher *search.Searcher
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server.
func New(store *corpus.Store, searcher *search.Searcher, logger *log.Logger) *Server {
	s := &Server{store: store, searcher: searcher, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/api/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}
