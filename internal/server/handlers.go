package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/permalink"
	"github.com/dl/narrsearch/internal/search"
)

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResponse is the JSON body of /api/search.
type SearchResponse struct {
	search.Outcome
	Mode        string        `json:"mode"`
	Granularity string        `json:"match_mode"`
	Permalink   string        `json:"permalink"`
	Lines       []corpus.Line `json:"lines,omitempty"`
}

// HealthResponse is the JSON body of /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Lines      int    `json:"lines"`
	Generation uint64 `json:"generation"`
	Cached     int    `json:"cached"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := permalink.Decode(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.searcher.Search(s.store.Load(), req)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("search failed", "term", req.Term, "err", err)
		}
		writeError(w, status, msg)
		return
	}

	resp := SearchResponse{
		Outcome:     out,
		Mode:        req.Mode.String(),
		Granularity: req.Granularity.String(),
		Permalink:   "?" + permalink.Query(req),
	}
	if out.Unfiltered {
		resp.Lines = out.Corpus.Lines()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.store.Load()
	if c == nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "no corpus"})
		return
	}
	resp := HealthResponse{Status: "ok", Lines: c.Len(), Generation: c.Generation()}
	if cache := s.searcher.Cache(); cache != nil {
		resp.Cached = cache.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// errorStatus maps a search error to a status code and a message safe to
// show the client.
func errorStatus(err error) (int, string) {
	switch {
	case matcher.IsInvalidPattern(err):
		return http.StatusBadRequest, matcher.InvalidPatternMessage
	case errors.Is(err, search.ErrInvalidRadius), errors.Is(err, search.ErrInvalidMaxResults):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, corpus.ErrNoCorpus):
		return http.StatusServiceUnavailable, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
