package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []Entry{
		{Line: "1 + 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
		{Line: "  x = 2  ", Mode: modeEval},
		{Line: "x = 2", Mode: modeEval},
		{Line: "", Mode: modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []Entry{
		{Line: "1 + 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
		{Line: "x = 2", Mode: modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "E:1 + 1\nC:list\nE:x = 2\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_MovesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	want := []Entry{{"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "E:b\nE:a\nC:a\n" {
		t.Errorf("history file = %q", got)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 5 {
		if err := h.Add(fmt.Sprint(i), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	first, err := h.At(0)
	if err != nil || first.Line != "5" {
		t.Errorf("At(0) = %v, %v", first, err)
	}

	if _, err := h.At(maxHistory); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(maxHistory) error = %v", err)
	}
}

func TestHistory_LoadLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("plain\n\nC:quit\nE:1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []Entry{{"plain", modeEval}, {"quit", modeCtrl}, {"1", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	if err := NewHistory(filepath.Join(t.TempDir(), "missing")).Load(); err != nil {
		t.Errorf("Load of a missing file: %v", err)
	}
}
