package search

import (
	"testing"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/matcher"
)

func TestSession_FailedSearchKeepsPreviousOutcome(t *testing.T) {
	c := corpus.New([]string{"cat", "dog"})
	sess := NewSession(NewSearcher(highlight.PlainMarkers(), nil), request(matcher.Contains, matcher.WholeLine, "dog"))

	if _, ok := sess.Last(); ok {
		t.Fatal("fresh session should have no outcome")
	}
	if _, err := sess.Run(c); err != nil {
		t.Fatal(err)
	}

	bad := sess.Request()
	bad.Mode = matcher.Regex
	bad.Term = "["
	if err := sess.Update(bad); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Run(c); !matcher.IsInvalidPattern(err) {
		t.Fatalf("Run error = %v, want invalid pattern", err)
	}

	last, ok := sess.Last()
	if !ok || last.Total != 1 || last.Results[0].LineIndex != 1 {
		t.Errorf("previous outcome lost: %+v", last)
	}
}

func TestSession_UpdateRejectsInvalid(t *testing.T) {
	sess := NewSession(NewSearcher(highlight.PlainMarkers(), nil), DefaultRequest())
	bad := DefaultRequest()
	bad.ContextRadius = MaxContext + 1
	if err := sess.Update(bad); err == nil {
		t.Error("expected validation error")
	}
	if sess.Request().ContextRadius != DefaultContext {
		t.Errorf("request changed despite error")
	}
}
