package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", name, err)
	}

	return v
}

func TestResolve_FlattensSets(t *testing.T) {
	config := `
let level = "debug"; in {
  log = {
    inherit level;
    pretty = false;
    time = { layout = "Kitchen"; };
  };
  include = [ "a" "nixpkgs=/src" ];
  jobs = 4;
  ratio = 0.5;
  log_format = "json";
  unbound = missing;
}`

	r, err := resolve(t.Context())(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		name string
		want any
	}{
		{name: "log-level", want: "debug"},
		{name: "log_level", want: "debug"},
		{name: "log-pretty", want: false},
		{name: "log-time-layout", want: "Kitchen"},
		{name: "log-format", want: "json"},
		{name: "jobs", want: "4"},
		{name: "ratio", want: "0.5"},
		{name: "unbound", want: nil},
		{name: "log", want: nil},
		{name: "other", want: nil},
	}

	for _, tt := range tests {
		if got := resolveFlag(t, r, tt.name); got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.name, got, tt.want)
		}
	}

	include, ok := resolveFlag(t, r, "include").([]any)
	if !ok || !slices.Equal(include, []any{"a", "nixpkgs=/src"}) {
		t.Errorf("include = %#v", include)
	}
}

func TestResolve_IgnoresInvalidFiles(t *testing.T) {
	for _, config := range []string{
		`{ log = `,
		`[ "not" "a" "set" ]`,
		`{ a = 1 / 0; }.a`,
	} {
		r, err := resolve(t.Context())(strings.NewReader(config))
		if err != nil {
			t.Fatalf("resolve(%q) failed: %v", config, err)
		}

		if got := resolveFlag(t, r, "log-level"); got != nil {
			t.Errorf("resolve(%q) log-level = %v", config, got)
		}
	}
}

func TestResolve_Kong(t *testing.T) {
	var cli struct {
		Log struct {
			Level  string `default:"info"`
			Pretty bool   `default:"true" negatable:""`
		} `embed:"" prefix:"log-"`

		Jobs int `default:"1"`
	}

	r, err := resolve(t.Context())(strings.NewReader(`{ log = { level = "warn"; pretty = false; }; jobs = 8; }`))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--jobs=3"}); err != nil {
		t.Fatal(err)
	}

	if cli.Log.Level != "warn" || cli.Log.Pretty || cli.Jobs != 3 {
		t.Errorf("parsed %+v", cli)
	}
}
