package matcher

import (
	"errors"
	"slices"
	"testing"

	"github.com/dl/narrsearch/internal/corpus"
)

func lineIndexes(results []Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.LineIndex
	}
	return out
}

var animals = []string{"cat", "dog", "catfish"}

var pets = []string{"cat", "dog", "bird"}

func TestMatch_FilterModes(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		mode   Mode
		gran   Granularity
		engine Engine
		term   string
		want   []int
	}{
		{"contains whole line", animals, Contains, WholeLine, RE2, "cat", []int{0, 2}},
		{"prefix per word", animals, Prefix, PerWord, RE2, "do", []int{1}},
		{"contains per word", []string{"he eats", "the seat", "eat"}, Contains, PerWord, RE2, "eat", []int{0, 1, 2}},
		{"prefix whole line not per word", []string{"he eats", "eats here"}, Prefix, WholeLine, RE2, "eats", []int{1}},
		{"prefix per word any token", []string{"he eats", "eats here", "meats"}, Prefix, PerWord, RE2, "eats", []int{0, 1}},
		{"dot is literal in contains", []string{"he.eats", "he eats", "hexeats"}, Contains, WholeLine, RE2, "he.eats", []int{0}},
		{"dot is literal in prefix", []string{"a.b", "axb"}, Prefix, WholeLine, RE2, "a.", []int{0}},
		{"other metacharacters literal", []string{"a*b", "aab"}, Contains, WholeLine, RE2, "a*", []int{0}},
		{"per word contains does not span tokens", []string{"he eats"}, Contains, PerWord, RE2, "he eats", nil},
		{"whole line contains spans tokens", []string{"he eats"}, Contains, WholeLine, RE2, "he eats", []int{0}},
		{"tabs split tokens", []string{"one\ttwo"}, Prefix, PerWord, RE2, "two", []int{0}},
		{"regex anchored at start", []string{"cat", "bobcat", "category"}, Regex, WholeLine, RE2, "cat", []int{0, 2}},
		{"regex dot wildcard", []string{"he eats", "he.eats", "heats"}, Regex, WholeLine, RE2, "he.eats", []int{0, 1}},
		{"regex per word", []string{"the bobcat", "wildcat bob"}, Regex, PerWord, RE2, "bob", []int{0, 1}},
		{"regex alternation stays anchored", []string{"xa", "b", "xb"}, Regex, WholeLine, RE2, "a|b", []int{1}},
		{"regex trailing quote", []string{"a)", "xa)"}, Regex, WholeLine, RE2, `a\Q)`, []int{0}},
		{"pcre anchored", []string{"cat", "bobcat"}, Regex, WholeLine, PCRE, "cat", []int{0}},
		{"pcre lookahead", []string{"catfish", "cats"}, Regex, WholeLine, PCRE, "cat(?=f)", []int{0}},
		{"pcre backreference per word", []string{"xx yz", "ab"}, Regex, PerWord, PCRE, `(\w)\1`, []int{0}},
		{"re2 zero width star", pets, Regex, WholeLine, RE2, "x*", []int{0, 1, 2}},
		{"pcre zero width star", pets, Regex, WholeLine, PCRE, "x*", []int{0, 1, 2}},
		{"re2 optional", pets, Regex, WholeLine, RE2, "c?", []int{0, 1, 2}},
		{"pcre optional", pets, Regex, WholeLine, PCRE, "c?", []int{0, 1, 2}},
		{"pcre optional per word", []string{"dog cat", "bird"}, Regex, PerWord, PCRE, "d*", []int{0, 1}},
		{"pcre lookahead zero width", []string{"cat", "dog"}, Regex, WholeLine, PCRE, "(?=d)", []int{1}},
		{"re2 blank line", []string{"", "cat"}, Regex, WholeLine, RE2, "x*", []int{0, 1}},
		{"pcre blank line", []string{"", "cat"}, Regex, WholeLine, PCRE, "x*", []int{0, 1}},
		{"pcre blank line needs a character", []string{"", "cat"}, Regex, WholeLine, PCRE, "c", []int{1}},
		{"empty corpus", nil, Contains, WholeLine, RE2, "cat", nil},
		{"empty corpus regex", nil, Regex, PerWord, RE2, "cat", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := corpus.New(tt.lines)
			results, err := Match(c, tt.term, tt.mode, Options{Granularity: tt.gran, Engine: tt.engine})
			if err != nil {
				t.Fatalf("Match() error: %v", err)
			}
			got := lineIndexes(results)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got lines %v, want %v", got, tt.want)
			}
			for _, r := range results {
				if r.Ranked {
					t.Errorf("filter mode result %+v should not be ranked", r)
				}
			}
		})
	}
}

func TestMatch_FilterPreservesCorpusOrder(t *testing.T) {
	lines := []string{"ab", "b", "abc", "x", "ab ab", "zab"}
	c := corpus.New(lines)
	for _, mode := range []Mode{Contains, Prefix, Regex} {
		for _, g := range Granularities() {
			results, err := Match(c, "ab", mode, Options{Granularity: g})
			if err != nil {
				t.Fatalf("%s/%s: %v", mode, g, err)
			}
			for i := 1; i < len(results); i++ {
				if results[i].LineIndex <= results[i-1].LineIndex {
					t.Errorf("%s/%s: results not strictly ascending: %v", mode, g, lineIndexes(results))
				}
			}
		}
	}
}

func TestMatch_EditDistanceWholeLine(t *testing.T) {
	c := corpus.New(animals)
	results, err := Match(c, "cats", EditDistance, Options{Granularity: WholeLine})
	if err != nil {
		t.Fatal(err)
	}

	// cat->1, catfish->3 (delete f, i, h), dog->4
	wantOrder := []int{0, 2, 1}
	if got := lineIndexes(results); !slices.Equal(got, wantOrder) {
		t.Fatalf("order = %v, want %v", got, wantOrder)
	}
	wantKeys := map[int]int{0: 1, 1: 4, 2: 3}
	for _, r := range results {
		if !r.Ranked {
			t.Errorf("result %+v should be ranked", r)
		}
		if r.RankKey != wantKeys[r.LineIndex] {
			t.Errorf("line %d rank = %d, want %d", r.LineIndex, r.RankKey, wantKeys[r.LineIndex])
		}
	}
}

func TestMatch_EditDistancePerWord(t *testing.T) {
	c := corpus.New([]string{"big dog barks", "a cat sat", "", "cats and dogs"})
	results, err := Match(c, "cat", EditDistance, Options{Granularity: PerWord})
	if err != nil {
		t.Fatal(err)
	}

	// cat->0 (line 1), cats->1 (line 3), dog->3 / big->3 (line 0), ""->3 (line 2)
	want := []Result{
		{LineIndex: 1, RankKey: 0, Ranked: true},
		{LineIndex: 3, RankKey: 1, Ranked: true},
		{LineIndex: 0, RankKey: 3, Ranked: true},
		{LineIndex: 2, RankKey: 3, Ranked: true},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("result[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestMatch_EditDistanceTiesKeepCorpusOrder(t *testing.T) {
	c := corpus.New([]string{"cat", "dog", "cot", "cut"})
	results, err := Match(c, "cats", EditDistance, Options{Granularity: WholeLine})
	if err != nil {
		t.Fatal(err)
	}
	// cat->1, cot->2, cut->2, dog->4
	want := []int{0, 2, 3, 1}
	if got := lineIndexes(results); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestMatch_EditDistanceIsStablePermutation(t *testing.T) {
	lines := []string{"bb", "aa", "ab", "ba", "b", "a", "", "abc", "ab"}
	c := corpus.New(lines)
	results, err := Match(c, "ab", EditDistance, Options{Granularity: WholeLine})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != len(lines) {
		t.Fatalf("got %d results, want every line (%d)", len(results), len(lines))
	}
	seen := make(map[int]bool)
	for i, r := range results {
		if seen[r.LineIndex] {
			t.Fatalf("line %d returned twice", r.LineIndex)
		}
		seen[r.LineIndex] = true
		if i == 0 {
			continue
		}
		prev := results[i-1]
		if r.RankKey < prev.RankKey {
			t.Errorf("rank keys decrease at %d: %d < %d", i, r.RankKey, prev.RankKey)
		}
		if r.RankKey == prev.RankKey && r.LineIndex < prev.LineIndex {
			t.Errorf("tie at rank %d not in corpus order: %d before %d", r.RankKey, prev.LineIndex, r.LineIndex)
		}
	}
}

func TestMatch_DoesNotMutateCorpus(t *testing.T) {
	c := corpus.New(animals)
	before := c.Lines()
	for _, mode := range Modes() {
		if _, err := Match(c, "cat", mode, Options{}); err != nil {
			t.Fatal(err)
		}
	}
	after := c.Lines()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("line %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestMatch_InvalidPattern(t *testing.T) {
	c := corpus.New(animals)
	for _, engine := range []Engine{RE2, PCRE} {
		t.Run(engine.String(), func(t *testing.T) {
			_, err := Match(c, "[", Regex, Options{Engine: engine})
			if err == nil {
				t.Fatal("expected error for invalid pattern")
			}
			var ipe *InvalidPatternError
			if !errors.As(err, &ipe) {
				t.Fatalf("error %T is not *InvalidPatternError", err)
			}
			if ipe.Pattern != "[" || ipe.Engine != engine {
				t.Errorf("error fields = %+v", ipe)
			}
			if !IsInvalidPattern(err) {
				t.Error("IsInvalidPattern() = false")
			}
		})
	}
}

func TestMatch_InvalidPatternOnlyInRegexMode(t *testing.T) {
	c := corpus.New([]string{"a[b"})
	for _, mode := range []Mode{Contains, Prefix, EditDistance} {
		if _, err := Match(c, "[", mode, Options{}); err != nil {
			t.Errorf("%s: unexpected error %v", mode, err)
		}
	}
}

func TestNew_Mode(t *testing.T) {
	for _, mode := range Modes() {
		m, err := New(mode, "x", Options{})
		if err != nil {
			t.Fatal(err)
		}
		if m.Mode() != mode {
			t.Errorf("New(%s).Mode() = %s", mode, m.Mode())
		}
		Release(m)
	}
	if _, err := New(Mode(42), "x", Options{}); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("unknown mode error = %v", err)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("  he\t eats \n fish  ")
	want := []string{"he", "eats", "fish"}
	if len(got) != len(want) {
		t.Fatalf("Tokens = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(Tokens("   ")) != 0 {
		t.Error("whitespace-only line should have no tokens")
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"cat", "cats", 1},
		{"dog", "cats", 4},
		{"catfish", "cats", 3},
		{"dog", "cat", 3},
		{"kitten", "sitting", 3},
		{"caf\u00e9", "cafe", 1},
		{"", "abc", 3},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
