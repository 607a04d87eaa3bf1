package cmd

import (
	"errors"
	"testing"

	"github.com/ardnew/nixeval/cli/cmd/repl"
)

func TestReplRun_Lines(t *testing.T) {
	path := writeFile(t, "defs.nix", "{ a = 1; }")
	ctx, out := testHost(t, "a + 1\nb\n", nil)

	if err := (&Repl{Load: []string{path}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "2\n<dep: b>\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestReplRun_LoadNotSet(t *testing.T) {
	path := writeFile(t, "list.nix", "[ 1 ]")
	ctx, _ := testHost(t, "", nil)

	if err := (&Repl{Load: []string{path}}).Run(ctx); !errors.Is(err, repl.ErrNotSet) {
		t.Errorf("Run() error = %v, want repl.ErrNotSet", err)
	}
}
