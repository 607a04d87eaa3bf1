package lang

import (
	"errors"
	"slices"
	"testing"
)

func formatTokens(t *testing.T, input string) []string {
	t.Helper()

	src := NewSource(input)

	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", input, err)
	}

	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Format(src)
	}

	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "binding",
			input: "xyz = 10;",
			want:  []string{"Ident(xyz)", "Assign", "Int(10)", "Semicolon"},
		},
		{
			name:  "less or equals between floats",
			input: "5.1<=1.1",
			want:  []string{"Flo(5.1)", "LessOrEquals", "Flo(1.1)"},
		},
		{
			name:  "less than before float",
			input: "5 <1.1",
			want:  []string{"Int(5)", "Less", "Flo(1.1)"},
		},
		{
			name:  "nix path",
			input: "<nixpkgs>",
			want:  []string{"NixPath(nixpkgs)"},
		},
		{
			name:  "absolute path",
			input: "/etc/nixos",
			want:  []string{"Path(/etc/nixos)"},
		},
		{
			name:  "division",
			input: "15.14 / 18",
			want:  []string{"Flo(15.14)", "Div", "Int(18)"},
		},
		{
			name:  "relative and home paths",
			input: "./foo.nix ~/bar ../baz",
			want:  []string{"Path(./foo.nix)", "Path(~/bar)", "Path(../baz)"},
		},
		{
			name:  "path ends at semicolon",
			input: "p = ./a/b;",
			want:  []string{"Ident(p)", "Assign", "Path(./a/b)", "Semicolon"},
		},
		{
			name:  "add and concat",
			input: "a + b ++ c",
			want: []string{
				"Ident(a)", "Add", "Ident(b)", "Concat", "Ident(c)",
			},
		},
		{
			name:  "subtraction chain",
			input: "4 - 3.45 - 1",
			want:  []string{"Int(4)", "Sub", "Flo(3.45)", "Sub", "Int(1)"},
		},
		{
			name:  "leading negation",
			input: "-1",
			want:  []string{"ArithNegation", "Int(1)"},
		},
		{
			name:  "negation after operator",
			input: "2 * -x",
			want:  []string{"Int(2)", "Mult", "ArithNegation", "Ident(x)"},
		},
		{
			name:  "negation after closing paren",
			input: "(1) -2",
			want: []string{
				"LParen", "Int(1)", "RParen", "ArithNegation", "Int(2)",
			},
		},
		{
			name:  "negation after literals",
			input: `"a" - true - null - ./p - ] - } -`,
			want: []string{
				"Str(a)", "ArithNegation", "true", "ArithNegation",
				"null", "ArithNegation", "Path(./p)", "ArithNegation",
				"RBracket", "ArithNegation", "RBrace", "ArithNegation",
			},
		},
		{
			name:  "subtraction after float",
			input: "1.5-x",
			want:  []string{"Flo(1.5)", "Sub", "Ident(x)"},
		},
		{
			name:  "equality and assignment",
			input: "a == b != c = d",
			want: []string{
				"Ident(a)", "Equals", "Ident(b)", "NotEquals",
				"Ident(c)", "Assign", "Ident(d)",
			},
		},
		{
			name:  "logical operators",
			input: "!a && b || c -> d",
			want: []string{
				"LogicalNegation", "Ident(a)", "And", "Ident(b)",
				"Or", "Ident(c)", "Arrow", "Ident(d)",
			},
		},
		{
			name:  "relational",
			input: "x <= y >= z > w",
			want: []string{
				"Ident(x)", "LessOrEquals", "Ident(y)", "MoreOrEquals",
				"Ident(z)", "More", "Ident(w)",
			},
		},
		{
			name:  "update and has",
			input: "a // b ? c",
			want:  []string{"Ident(a)", "Update", "Ident(b)", "Has", "Ident(c)"},
		},
		{
			name:  "attribute access",
			input: "s.a.b",
			want: []string{
				"Ident(s)", "Access", "Ident(a)", "Access", "Ident(b)",
			},
		},
		{
			name:  "empty string",
			input: `""`,
			want:  []string{"Str()"},
		},
		{
			name:  "string keeps raw text",
			input: `"a\nb"`,
			want:  []string{`Str(a\nb)`},
		},
		{
			name:  "indented string with single quote",
			input: "''it's\nmultiline''",
			want:  []string{"IndStr(it's\nmultiline)"},
		},
		{
			name:  "hyphenated identifier",
			input: "var-with-hyphens",
			want:  []string{"Ident(var-with-hyphens)"},
		},
		{
			name:  "comment with any character",
			input: "# ünïcødé ©\nx # trailing",
			want:  []string{"Ident(x)"},
		},
		{
			name:  "tabs and carriage returns",
			input: "a\t=\r\n1",
			want:  []string{"Ident(a)", "Assign", "Int(1)"},
		},
		{
			name:  "keywords",
			input: "let in inherit import with map null true false if then else rec",
			want: []string{
				"let", "in", "inherit", "import", "with", "map", "null",
				"true", "false", "if", "then", "else", "rec",
			},
		},
		{
			name:  "keyword prefix is an identifier",
			input: "letter inherits",
			want:  []string{"Ident(letter)", "Ident(inherits)"},
		},
		{
			name:  "largest int",
			input: "2147483647",
			want:  []string{"Int(2147483647)"},
		},
		{
			name:  "int overflow becomes float",
			input: "2147483648",
			want:  []string{"Flo(2147483648.0)"},
		},
		{
			name:  "set and list punctuation",
			input: "{ a = [ 1 2 ]; }",
			want: []string{
				"LBrace", "Ident(a)", "Assign", "LBracket", "Int(1)",
				"Int(2)", "RBracket", "Semicolon", "RBrace",
			},
		},
		{
			name:  "empty input",
			input: "  # nothing\n",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTokens(t, tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got: %v\nwant: %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		line   int
		column int
	}{
		{
			name:   "invalid character",
			input:  "x = %",
			want:   ErrInvalidCharacter,
			line:   1,
			column: 5,
		},
		{
			name:   "lone ampersand",
			input:  "a & b",
			want:   ErrInvalidCharacter,
			line:   1,
			column: 3,
		},
		{
			name:   "unterminated string",
			input:  "x = \"abc",
			want:   ErrUnterminatedString,
			line:   1,
			column: 5,
		},
		{
			name:   "unterminated indented string",
			input:  "\n''abc'",
			want:   ErrUnterminatedIndentedString,
			line:   2,
			column: 1,
		},
		{
			name:   "number with two dots",
			input:  "1.2.3",
			want:   ErrInvalidNumber,
			line:   1,
			column: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(NewSource(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Tokenize(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if !errors.Is(err, ErrLexical) {
				t.Errorf("error %v is not a lexical error", err)
			}

			if errors.Is(err, ErrSyntax) {
				t.Errorf("error %v is also a syntax error", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			pos, ok := e.Position()
			if !ok {
				t.Fatal("error has no position")
			}

			if pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("position = %s, want %d:%d", pos, tt.line, tt.column)
			}
		})
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	input := `let x = "foo"; y = <bar>; in if x == "foo" then ./a else [ 1 2.5 ]`

	first := formatTokens(t, input)
	second := formatTokens(t, input)

	if !slices.Equal(first, second) {
		t.Errorf("tokenizing twice differs:\n%v\n%v", first, second)
	}
}

func TestTokenize_ZeroCopy(t *testing.T) {
	src := NewSource(`name = "value";`)

	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	if got := tokens[0].Span; got != (Span{Offset: 0, Len: 4}) {
		t.Errorf("ident span = %+v", got)
	}

	if got := tokens[2].Text(src); got != "value" {
		t.Errorf("string text = %q, want %q", got, "value")
	}
}

func TestLexer_NextAfterEOF(t *testing.T) {
	l := NewLexer(NewSource("x"))

	for range 3 {
		if _, err := l.Next(); err != nil {
			t.Fatal(err)
		}
	}

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}

	if tok.Kind != TokenEOF {
		t.Errorf("kind = %s, want EOF", tok.Kind)
	}
}

func TestKeywords(t *testing.T) {
	for _, kw := range Keywords() {
		got := formatTokens(t, kw)
		if len(got) != 1 || got[0] == "Ident("+kw+")" {
			t.Errorf("keyword %q lexed as %v", kw, got)
		}
	}
}
