package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestRun_InitRoundTrip(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)

	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }

	if err := Run(t.Context(), exit, "--log-level=warn", "-I", "nixpkgs=/src", "init"); err != nil {
		t.Fatal(err)
	}

	path := configPath(baseConfig)
	if !strings.HasPrefix(path, root) {
		t.Skipf("configuration directory %s was resolved before the test", path)
	}

	// The second run reads its defaults from the file written by the first.
	if err := Run(t.Context(), exit, "init", "--force"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`level = "warn";`, `"nixpkgs=/src"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("configuration file lacks %s:\n%s", want, data)
		}
	}
}

func TestCommandName(t *testing.T) {
	var grammar struct {
		Eval struct {
			File string `arg:"" optional:""`
		} `cmd:"" default:"withargs"`
		Repl struct{} `cmd:""`
	}

	parser, err := kong.New(&grammar, kong.Name("test"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"repl"}, want: "repl"},
		{args: []string{"eval", "a.nix"}, want: "eval"},
	}

	for _, tt := range tests {
		ktx, err := parser.Parse(tt.args)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.args, err)
		}

		if got := commandName(ktx); got != tt.want {
			t.Errorf("commandName(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
