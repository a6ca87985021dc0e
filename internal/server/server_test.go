package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/search"
)

func newSearcher(t *testing.T) *search.Searcher {
	t.Helper()
	cache, err := search.NewCache(16)
	require.NoError(t, err)
	return search.NewSearcher(highlight.HTMLMarkers(), cache)
}

func setupTestServer(t *testing.T, c *corpus.Corpus) *Server {
	t.Helper()
	return New(corpus.NewStore(c), newSearcher(t), log.New(io.Discard))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func apiQuery(v map[string]string) string {
	q := url.Values{}
	for k, val := range v {
		q.Set(k, val)
	}
	return "/api/search?" + q.Encode()
}

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat", "dog"}))

	w := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, 2, resp.Lines)
}

func TestHandleHealth_NoCorpus(t *testing.T) {
	s := setupTestServer(t, nil)
	w := get(t, s, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleSearch_Contains(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat", "dog", "catfish"}))

	w := get(t, s, apiQuery(map[string]string{
		"term":       "cat",
		"mode":       "contains",
		"match_mode": "match whole line",
		"context":    "0",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	require.Equal(t, 0, resp.Results[0].LineIndex)
	require.Equal(t, 2, resp.Results[1].LineIndex)
	require.Equal(t, `<span class="result"><span class="term">cat</span>fish</span>`, resp.Results[1].Highlighted)
	require.Equal(t, "contains", resp.Mode)
	require.Contains(t, resp.Permalink, "term=cat")
}

func TestHandleSearch_EditDistanceRanked(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat", "dog", "catfish"}))

	w := get(t, s, apiQuery(map[string]string{
		"term":       "cats",
		"mode":       "edit distance",
		"match_mode": "match whole line",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 3)
	got := []int{resp.Results[0].LineIndex, resp.Results[1].LineIndex, resp.Results[2].LineIndex}
	require.Equal(t, []int{0, 2, 1}, got)
	require.NotNil(t, resp.Results[0].RankKey)
	require.Equal(t, 1, *resp.Results[0].RankKey)
}

func TestHandleSearch_InvalidPattern(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat"}))

	w := get(t, s, apiQuery(map[string]string{"term": "(", "mode": "python regex"}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, matcher.InvalidPatternMessage, resp.Error)
}

func TestHandleSearch_BadParameters(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat"}))

	tests := []struct {
		name  string
		query map[string]string
	}{
		{"context too large", map[string]string{"term": "cat", "context": "101"}},
		{"zero ndisp", map[string]string{"term": "cat", "ndisp": "0"}},
		{"unknown mode", map[string]string{"term": "cat", "mode": "soundex"}},
		{"non-integer context", map[string]string{"term": "cat", "context": "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, apiQuery(tt.query))
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleSearch_EmptyTermIsUnfiltered(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat", "dog"}))

	w := get(t, s, "/api/search")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Unfiltered)
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Lines, 2)
	require.Equal(t, "dog", resp.Lines[1].Text)
}

func TestHandleSearch_SeesReload(t *testing.T) {
	store := corpus.NewStore(corpus.New([]string{"cat"}))
	s := New(store, newSearcher(t), log.New(io.Discard))
	q := apiQuery(map[string]string{"term": "dog", "match_mode": "match whole line"})

	var resp SearchResponse
	w := get(t, s, q)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 0, resp.Total)

	store.Swap(corpus.New([]string{"cat", "dog"}))

	resp = SearchResponse{}
	w = get(t, s, q)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
}

func TestHandlePage(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"a <b> cat", "dog", "catfish"}))

	w := get(t, s, "/?term=cat&match_mode=match+whole+line&context=1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	require.Contains(t, body, "Search result 1 of 2")
	require.Contains(t, body, "Search result 2 of 2")
	require.Contains(t, body, `a &lt;b&gt; <span class="term">cat</span>`)
	require.Contains(t, body, `<option selected>contains</option>`)
	require.Contains(t, body, `<option selected>match whole line</option>`)
	require.Contains(t, body, `<option selected>re2</option>`)
}

func TestHandlePage_KeepsEngine(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"catfish", "cats"}))

	w := get(t, s, "/?term=cat%28%3F%3Df%29&mode=python+regex&engine=pcre")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	require.Contains(t, body, `<select name="engine">`)
	require.Contains(t, body, `<option selected>pcre</option>`)
	require.Contains(t, body, `<option>re2</option>`)
	require.Contains(t, body, "Search result 1 of 1")
}

func TestHandlePage_NoResults(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat"}))

	w := get(t, s, "/?term=zebra")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No results for search term &#34;zebra&#34;")
}

func TestHandlePage_InvalidPattern(t *testing.T) {
	s := setupTestServer(t, corpus.New([]string{"cat"}))

	w := get(t, s, "/?term=%28&mode=python+regex")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	require.Contains(t, body, matcher.InvalidPatternMessage)
	require.False(t, strings.Contains(body, "Search result"))
}
