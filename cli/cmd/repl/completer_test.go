package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double (fo", 10, "fo", 8, 10},
		{"in_set", "{ a = fo", 8, "fo", 6, 8},
		{"after_has", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		// Hyphens are part of identifiers, not word boundaries.
		{"hyphenated", "log-pretty", 10, "log-pretty", 0, 10},
		{"hyphenated_after_dot", "config.log-pretty", 17, "log-pretty", 7, 17},
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_assign", "x = a.b.", 8, "a.b"},
		{"hyphenated_chain", "config.log-pretty.", 18, "config.log-pretty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestSession_Candidates(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Eval(t.Context(), "server = { http = { host = 1; port = 2; }; }"); err != nil {
		t.Fatal(err)
	}

	top := s.candidates("")
	for _, want := range []string{"server", "map", "let", "attrNames"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level candidates %v lack %q", top, want)
		}
	}

	if !slices.IsSorted(top) {
		t.Errorf("top-level candidates are not sorted: %v", top)
	}

	if got, want := s.candidates("server.http"), []string{"host", "port"}; !slices.Equal(got, want) {
		t.Errorf("candidates(server.http) = %v, want %v", got, want)
	}

	for _, parent := range []string{"server.http.host", "nowhere", "server.missing"} {
		if got := s.candidates(parent); got != nil {
			t.Errorf("candidates(%q) = %v, want none", parent, got)
		}
	}
}

func TestSession_Signature(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Eval(t.Context(), "inc = map toString"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{input: "map ", want: "map f list"},
		{input: "map toString ", want: "map f list"},
		{input: "head", want: "head list"},
		{input: "inc ", want: "inc (partially applied)"},
		{input: "1 + 2", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := s.signature(tt.input, len(tt.input)); got != tt.want {
			t.Errorf("signature(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
