package lang

import (
	"strings"
	"testing"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1+1==2", want: "1 + 1 == 2"},
		{input: "(1 + 2) * 3", want: "(1 + 2) * 3"},
		{input: "4 - 3 - 1", want: "4 - 3 - 1"},
		{input: "4 - (3 - 1)", want: "4 - (3 - 1)"},
		{input: "let x = 1;   in x", want: "let x = 1; in x"},
		{input: "{ a = 1; inherit b; }", want: "{ a = 1; inherit b; }"},
		{input: "{ }", want: "{}"},
		{input: "rec { a = 1; }", want: "rec { a = 1; }"},
		{input: "[ ]", want: "[ ]"},
		{input: "f (g x) y.z", want: "f (g x) y.z"},
		{input: "!(a && b)", want: "!(a && b)"},
		{input: "-(a + b)", want: "-(a + b)"},
		{input: `''say "hi"''`, want: `''say "hi"''`},
		{input: "(let a = 1; in a) + 1", want: "(let a = 1; in a) + 1"},
		{input: "<nixpkgs>", want: "<nixpkgs>"},
		{input: "if a then b else c", want: "if a then b else c"},
		{input: "with s; a", want: "with s; a"},
		{input: "(x + y).a", want: "(x + y).a"},
		{input: "[ (f x) ./p ]", want: "[ (f x) ./p ]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if got := FormatString(ast.Root); got != tt.want {
				t.Errorf("FormatString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat_Indent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "{ a = 1; b = { c = 2; }; }",
			want:  "{\n  a = 1;\n  b = {\n    c = 2;\n  };\n}",
		},
		{
			input: "let a = 1; in a",
			want:  "let\n  a = 1;\nin a",
		},
	}

	for _, tt := range tests {
		ast, err := ParseString(t.Context(), tt.input)
		if err != nil {
			t.Fatal(err)
		}

		var sb strings.Builder
		if err := Format(&sb, ast.Root, 2); err != nil {
			t.Fatal(err)
		}

		if got := sb.String(); got != tt.want {
			t.Errorf("Format(%q):\n%s\nwant:\n%s", tt.input, got, tt.want)
		}
	}
}

// Formatting and reparsing must reproduce the same tree.
func TestFormat_Reparse(t *testing.T) {
	inputs := []string{
		"a -> b || c && d == e < f // g",
		"!a + -b * c ++ d ? e",
		"let a = rec { x = 1; y = x; }; inherit z; in with a; [ x y (f 1) ]",
		"if x.y then map f [ 1 2 ] else import <p>",
		"a - b - (c - d)",
		"- -x",
		"f (let a = 1; in a) { b = 2; }",
	}

	for _, input := range inputs {
		first, err := ParseString(t.Context(), input)
		if err != nil {
			t.Fatalf("ParseString(%q) error: %v", input, err)
		}

		for _, indent := range []int{0, 2} {
			var sb strings.Builder
			if err := Format(&sb, first.Root, indent); err != nil {
				t.Fatal(err)
			}

			second, err := ParseString(t.Context(), sb.String())
			if err != nil {
				t.Fatalf("reparse of %q error: %v", sb.String(), err)
			}

			if a, b := Describe(first.Root), Describe(second.Root); a != b {
				t.Errorf("reparse of %q changed the tree:\n%s\n%s", input, a, b)
			}
		}
	}
}

func TestFormatValue(t *testing.T) {
	list := List{Int(1), Flo(2), Str("s"), Path("./p"), NixPath("n"), Null{}, Bool(false)}

	tests := []struct {
		value Value
		want  string
	}{
		{value: list, want: `[ 1 2.0 "s" ./p <n> null false ]`},
		{value: setOf("a", Int(1)), want: "{ a = 1; }"},
		{value: NewSet(), want: "{ }"},
		{value: Str(`say "hi"`), want: `''say "hi"''`},
		{value: NewDep("b", "a", "b"), want: "<dep: a, b>"},
		{value: builtins[0], want: "<function>"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.value); got != tt.want {
			t.Errorf("FormatValue(%#v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}
