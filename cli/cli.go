package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixeval/cli/cmd"
	"github.com/ardnew/nixeval/log"
	"github.com/ardnew/nixeval/pkg"
)

// CLI is the top-level command-line interface for nixeval.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Include []string          `help:"Add a directory or prefix=directory entry to the search path of <name> paths." placeholder:"DIR"         short:"I"`
	Arg     map[string]string `help:"Bind a name to the value of a host expression, which may call env(NAME)."       mapsep:"none" placeholder:"NAME=EXPR"`
	ArgStr  map[string]string `help:"Bind a name to a string."                                                       mapsep:"none" name:"argstr" placeholder:"NAME=STRING"`

	Tokens cmd.Tokens `cmd:"" help:"Print the tokens of a source"`
	Fmt    cmd.Fmt    `cmd:"" help:"Format a source"`
	Repl   cmd.Repl   `cmd:"" help:"Start an interactive session"`
	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a source"`
}

// Run executes the nixeval CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx, commandName(ktx))()

	bindings, err := argBindings(cli.Arg, cli.ArgStr)
	if err != nil {
		return err
	}

	importer := NewImporter(
		NewSearchPath(cli.Include, os.Getenv(searchPathEnv)),
		log.Default(),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithHost(ctx, &cmd.Host{
		Bindings: bindings,
		Importer: importer.For,
		Logger:   log.Default(),
	})

	return ktx.Run(ctx, &cli)
}

// commandName returns the name of the selected command, or the application
// name when none was selected.
func commandName(ktx *kong.Context) string {
	for _, trace := range ktx.Path {
		if trace.Command != nil {
			return trace.Command.Name
		}
	}

	return pkg.Name
}
