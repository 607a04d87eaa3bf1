package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/nixeval/lang"
)

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name  string
		cmd   Eval
		stdin string
		want  string
	}{
		{
			name: "expression",
			cmd:  Eval{Expr: "1 + 2"},
			want: "3\n",
		},
		{
			name:  "stdin",
			cmd:   Eval{Source: "-"},
			stdin: `let name = "nix"; in { inherit name; n = 2; }`,
			want:  "{ name = \"nix\"; n = 2; }\n",
		},
		{
			name: "json",
			cmd:  Eval{Expr: `{ a = 1; b = [ "s" true ]; }`, Format: formatJSON},
			want: `{"a":1,"b":["s",true]}` + "\n",
		},
		{
			name: "yaml",
			cmd:  Eval{Expr: `{ b = 1; a = "x"; }`, Format: formatYAML, Indent: 2},
			want: "b: 1\na: x\n",
		},
		{
			name: "attribute path",
			cmd:  Eval{Expr: "{ a = { b = 2; }; }", Attr: "a.b"},
			want: "2\n",
		},
		{
			name: "attribute of deferred value",
			cmd:  Eval{Expr: "{ a = x; }", Attr: "a.c"},
			want: "<dep: x>\n",
		},
		{
			name: "partial",
			cmd:  Eval{Expr: "[ (x + 1) 2 ]"},
			want: "[ <dep: x> 2 ]\n",
		},
		{
			name: "merged dependencies",
			cmd:  Eval{Expr: "x + y", MergeDeps: true},
			want: "<dep: x, y>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testHost(t, tt.stdin, nil)

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		cmd  Eval
		want error
	}{
		{name: "syntax", cmd: Eval{Expr: "1 +"}, want: lang.ErrSyntax},
		{name: "strict", cmd: Eval{Expr: "x + 1", Strict: true}, want: lang.ErrUndefinedVariable},
		{name: "unmerged dependencies", cmd: Eval{Expr: "x + y"}, want: lang.ErrUnresolvedDep},
		{name: "missing attribute", cmd: Eval{Expr: "{ a = 1; }", Attr: "b"}, want: lang.ErrMissingAttribute},
		{name: "not a set", cmd: Eval{Expr: "{ a = 1; }", Attr: "a.b"}, want: ErrNotSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testHost(t, "", nil)

			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvalRun_Host(t *testing.T) {
	bindings := lang.NewSet()
	bindings.Set("version", lang.Int(3))

	ctx, out := testHost(t, "", bindings)

	var imported []string

	host := hostFrom(ctx)
	host.Importer = func(name string) lang.Importer {
		return lang.ImporterFunc(func(_ context.Context, path lang.Value) (lang.Value, error) {
			imported = append(imported, name+":"+lang.FormatValue(path))

			return lang.Int(40), nil
		})
	}

	ctx = WithHost(ctx, host)

	if err := (&Eval{Expr: "import ./lib.nix + version - 1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "42\n" {
		t.Errorf("output = %q", got)
	}

	if len(imported) != 1 || imported[0] != exprSource+":./lib.nix" {
		t.Errorf("imports = %v", imported)
	}
}
