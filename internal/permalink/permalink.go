// Package permalink maps a search request to and from the flat query
// string used for shareable links: mode, term, context, ndisp, match_mode,
// normalize (and engine, when not the default).
package permalink

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/search"
)

const (
	KeyMode      = "mode"
	KeyTerm      = "term"
	KeyContext   = "context"
	KeyMaxShown  = "ndisp"
	KeyMatchMode = "match_mode"
	KeyNormalize = "normalize"
	KeyEngine    = "engine"
)

// Encode flattens req into query values using the long mode labels.
func Encode(req search.Request) url.Values {
	v := url.Values{}
	v.Set(KeyMode, req.Mode.String())
	v.Set(KeyTerm, req.Term)
	v.Set(KeyContext, strconv.Itoa(req.ContextRadius))
	v.Set(KeyMaxShown, strconv.Itoa(req.MaxResults))
	v.Set(KeyMatchMode, req.Granularity.String())
	v.Set(KeyNormalize, strconv.FormatBool(req.Normalize))
	if req.Engine != matcher.RE2 {
		v.Set(KeyEngine, req.Engine.String())
	}
	return v
}

// Query returns the encoded query string for req.
func Query(req search.Request) string {
	return Encode(req).Encode()
}

// Decode parses query values into a validated request. Missing keys keep
// the defaults of search.DefaultRequest.
func Decode(v url.Values) (search.Request, error) {
	req := search.DefaultRequest()

	if s, ok := lookup(v, KeyMode); ok {
		m, err := matcher.ParseMode(s)
		if err != nil {
			return req, fmt.Errorf("%s: %w", KeyMode, err)
		}
		req.Mode = m
	}
	if s, ok := lookup(v, KeyMatchMode); ok {
		g, err := matcher.ParseGranularity(s)
		if err != nil {
			return req, fmt.Errorf("%s: %w", KeyMatchMode, err)
		}
		req.Granularity = g
	}
	if s, ok := lookup(v, KeyEngine); ok {
		e, err := matcher.ParseEngine(s)
		if err != nil {
			return req, fmt.Errorf("%s: %w", KeyEngine, err)
		}
		req.Engine = e
	}
	req.Term = v.Get(KeyTerm)

	var err error
	if req.ContextRadius, err = intParam(v, KeyContext, req.ContextRadius); err != nil {
		return req, err
	}
	if req.MaxResults, err = intParam(v, KeyMaxShown, req.MaxResults); err != nil {
		return req, err
	}
	if s, ok := lookup(v, KeyNormalize); ok {
		b, err := parseBool(s)
		if err != nil {
			return req, fmt.Errorf("%s: %w", KeyNormalize, err)
		}
		req.Normalize = b
	}

	return req, req.Validate()
}

// Parse decodes a raw query string, with or without a leading '?'.
func Parse(query string) (search.Request, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return search.DefaultRequest(), fmt.Errorf("parse query: %w", err)
	}
	return Decode(v)
}

func lookup(v url.Values, key string) (string, bool) {
	s := strings.TrimSpace(v.Get(key))
	return s, s != ""
}

func intParam(v url.Values, key string, def int) (int, error) {
	s, ok := lookup(v, key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("%s: not an integer: %q", key, s)
	}
	return n, nil
}

// parseBool accepts the spellings a hand-edited link is likely to use.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "on":
		return true, nil
	case "0", "f", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
