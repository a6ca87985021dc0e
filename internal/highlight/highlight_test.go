package highlight

import (
	"strings"
	"testing"
)

func TestLine_HTML(t *testing.T) {
	tests := []struct {
		name string
		line string
		term string
		want string
	}{
		{
			name: "trims and marks term",
			line: "  the cat sat  ",
			term: "cat",
			want: `<span class="result">the <span class="term">cat</span> sat</span>`,
		},
		{
			name: "only first occurrence",
			line: "cat cat",
			term: "cat",
			want: `<span class="result"><span class="term">cat</span> cat</span>`,
		},
		{
			name: "term absent",
			line: "dog",
			term: "cats",
			want: `<span class="result">dog</span>`,
		},
		{
			name: "term is literal not regex",
			line: "hexeats he.eats",
			term: "he.eats",
			want: `<span class="result">hexeats <span class="term">he.eats</span></span>`,
		},
		{
			name: "line text escaped",
			line: "a<b> & cat",
			term: "cat",
			want: `<span class="result">a&lt;b&gt; &amp; <span class="term">cat</span></span>`,
		},
		{
			name: "term matching marker text is not found in markup",
			line: "plain words",
			term: "span",
			want: `<span class="result">plain words</span>`,
		},
		{
			name: "trailing newline stripped",
			line: "catfish\n",
			term: "fish",
			want: `<span class="result">cat<span class="term">fish</span></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.line, tt.term, HTMLMarkers()); got != tt.want {
				t.Errorf("Line(%q, %q) =\n  %s\nwant\n  %s", tt.line, tt.term, got, tt.want)
			}
		})
	}
}

func TestLine_AbsentTermHasNoTermMarker(t *testing.T) {
	m := HTMLMarkers()
	lines := []string{"", "dog", "the bobcat", "ÄÖÜ"}
	for _, line := range lines {
		got := Line(line, "zebra", m)
		if strings.Contains(got, m.TermOpen) {
			t.Errorf("Line(%q) contains a term marker: %s", line, got)
		}
	}
}

func TestLine_Brackets(t *testing.T) {
	got := Line(" he eats ", "eat", BracketMarkers())
	if got != "he [[eat]]s" {
		t.Errorf("got %q, want %q", got, "he [[eat]]s")
	}
}

func TestLine_ANSI(t *testing.T) {
	got := Line("cat", "a", ANSIMarkers())
	want := ansiBold + "c" + ansiBoldRed + "a" + ansiReset + ansiBold + "t" + ansiReset
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLocate(t *testing.T) {
	start, end, ok := Locate("  he eats", "eats")
	if !ok || start != 3 || end != 7 {
		t.Errorf("Locate = (%d, %d, %v), want (3, 7, true)", start, end, ok)
	}
	if _, _, ok := Locate("abc", ""); ok {
		t.Error("empty term should not be located")
	}
}
