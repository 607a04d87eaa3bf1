package cmd

import (
	"errors"
	"testing"

	"github.com/ardnew/nixeval/lang"
)

func TestTokensRun(t *testing.T) {
	ctx, out := testHost(t, "a = 1;\nb", nil)

	if err := (&Tokens{Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "1:1\tIdent(a)\n1:3\tAssign\n1:5\tInt(1)\n1:6\tSemicolon\n2:1\tIdent(b)\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTokensRun_Error(t *testing.T) {
	ctx, out := testHost(t, "", nil)

	err := (&Tokens{Expr: `x "open`}).Run(ctx)
	if !errors.Is(err, lang.ErrLexical) {
		t.Fatalf("Run() error = %v, want a lexical error", err)
	}

	if got := out.String(); got != "1:1\tIdent(x)\n" {
		t.Errorf("tokens before the error = %q", got)
	}
}
