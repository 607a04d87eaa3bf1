package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

// writeTree writes files, keyed by slash-separated names, under a temporary
// directory and returns the directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestImporter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.nix":           "(import ./lib).value + (import <pkgs/extra.nix>).n",
		"lib/default.nix":    "{ value = 40; }",
		"vendor/extra.nix":   "{ n = 2; }",
		"free.nix":           "{ a = host + 1; }",
		"cycle/a.nix":        "import ./b.nix",
		"cycle/b.nix":        "import ./a.nix",
		"nested/outer.nix":   "import ./inner/x.nix",
		"nested/inner/x.nix": "(import ../../lib).value",
	})

	im := NewImporter(SearchPath{"pkgs=" + filepath.Join(root, "vendor")}, log.Make(nil))
	imp := im.For(filepath.Join(root, "script.nix"))

	tests := []struct {
		path lang.Value
		want lang.Value
	}{
		{path: lang.Path("./main.nix"), want: lang.Int(42)},
		{path: lang.Str(filepath.Join(root, "lib")), want: mustSet(t, "value", lang.Int(40))},
		{path: lang.Path("./nested/outer.nix"), want: lang.Int(40)},
		{path: lang.NixPath("pkgs/extra.nix"), want: mustSet(t, "n", lang.Int(2))},
	}

	for _, tt := range tests {
		got, err := imp.Import(t.Context(), tt.path)
		if err != nil {
			t.Errorf("Import(%s) error: %v", tt.path, err)

			continue
		}

		if !lang.Equal(got, tt.want) {
			t.Errorf("Import(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}

	free, err := imp.Import(t.Context(), lang.Path("./free.nix"))
	if err != nil {
		t.Fatal(err)
	}

	if set, ok := free.(*lang.Set); !ok {
		t.Errorf("free.nix = %s", free)
	} else if a, _ := set.Get("a"); !lang.IsDep(a) {
		t.Errorf("free.nix a = %s, want a Dep", a)
	}

	if _, err := imp.Import(t.Context(), lang.Path("./cycle/a.nix")); !errors.Is(err, ErrImportCycle) {
		t.Errorf("cyclic import error = %v", err)
	}

	if _, err := imp.Import(t.Context(), lang.NixPath("nowhere")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing search path entry error = %v", err)
	}

	if _, err := imp.Import(t.Context(), lang.Path("./missing.nix")); !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestImporter_Cache(t *testing.T) {
	root := writeTree(t, map[string]string{"a.nix": "1"})
	imp := NewImporter(nil, log.Make(nil)).For(filepath.Join(root, "main.nix"))

	if v, err := imp.Import(t.Context(), lang.Path("./a.nix")); err != nil || !lang.Equal(v, lang.Int(1)) {
		t.Fatalf("first import = %v, %v", v, err)
	}

	if err := os.WriteFile(filepath.Join(root, "a.nix"), []byte("2"), 0o600); err != nil {
		t.Fatal(err)
	}

	if v, err := imp.Import(t.Context(), lang.Path("./a.nix")); err != nil || !lang.Equal(v, lang.Int(1)) {
		t.Errorf("second import = %v, %v; want the cached value", v, err)
	}
}

func TestImporter_Eval(t *testing.T) {
	root := writeTree(t, map[string]string{"lib.nix": `{ greeting = "hello"; }`})
	src := lang.NewNamedSource(filepath.Join(root, "main.nix"), `(import ./lib.nix).greeting + ", world"`)

	ast, err := lang.Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	im := NewImporter(nil, log.Make(nil))

	v, err := lang.EvalAST(t.Context(), ast, lang.Builtins(), lang.WithImporter(im.For(src.Name())))
	if err != nil {
		t.Fatal(err)
	}

	if !lang.Equal(v, lang.Str("hello, world")) {
		t.Errorf("result = %s", v)
	}
}

func mustSet(t *testing.T, key string, v lang.Value) *lang.Set {
	t.Helper()

	s := lang.NewSet()
	s.Set(key, v)

	return s
}
