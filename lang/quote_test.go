package lang

import (
	"errors"
	"math"
	"testing"
)

func TestIsIdent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "x", want: true},
		{name: "_x1", want: true},
		{name: "log-level", want: true},
		{name: "a_b-c2", want: true},
		{name: "", want: false},
		{name: "1x", want: false},
		{name: "-x", want: false},
		{name: "a b", want: false},
		{name: "let", want: false},
		{name: "null", want: false},
	}

	for _, tt := range tests {
		if got := IsIdent(tt.name); got != tt.want {
			t.Errorf("IsIdent(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	set := NewSet()
	set.Set("level", Str("debug"))
	set.Set("pretty", Bool(false))
	set.Set("paths", List{Path("./a"), NixPath("b")})

	tests := []struct {
		value Value
		want  string
	}{
		{value: Str("x"), want: `"x"`},
		{value: Int(-3), want: "-3"},
		{value: Flo(0.5), want: "0.5"},
		{value: Null{}, want: "null"},
		{value: List{Int(-1), Int(2)}, want: "[ (-1) 2 ]"},
		{value: set, want: `{ level = "debug"; pretty = false; paths = [ ./a <b> ]; }`},
	}

	for _, tt := range tests {
		n, err := Quote(tt.value)
		if err != nil {
			t.Fatalf("Quote(%s) error: %v", tt.value, err)
		}

		if got := FormatString(n); got != tt.want {
			t.Errorf("Quote(%s) formats as %q, want %q", tt.value, got, tt.want)
		}

		ast, err := ParseString(t.Context(), FormatString(n))
		if err != nil {
			t.Fatalf("reparse %q: %v", FormatString(n), err)
		}

		v, err := EvalAST(t.Context(), ast, nil)
		if err != nil {
			t.Fatalf("evaluate %q: %v", FormatString(n), err)
		}

		if !Equal(v, tt.value) {
			t.Errorf("round trip of %s = %s", tt.value, v)
		}
	}
}

func TestQuote_Unsupported(t *testing.T) {
	odd := NewSet()
	odd.Set("a b", Int(1))

	for _, v := range []Value{nil, NewDep("x"), builtins[0], Flo(math.Inf(1)), odd, List{NewDep("y")}} {
		if _, err := Quote(v); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Quote(%v) error = %v, want ErrUnsupported", v, err)
		}
	}
}
