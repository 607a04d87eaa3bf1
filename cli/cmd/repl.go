package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/nixeval/cli/cmd/repl"
	"github.com/ardnew/nixeval/lang"
)

// replSource names the source of expressions typed at the prompt.
const replSource = "<repl>"

// Repl starts an interactive session. When stdin is not a terminal, each
// line read from it is evaluated in turn.
type Repl struct {
	Strict    bool `help:"Fail on unbound names instead of deferring them."`
	MergeDeps bool `help:"Merge the dependencies of two deferred operands."`

	Load []string `arg:"" help:"Files whose attribute sets are bound at startup." optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	env, err := host.Env(r.Strict)
	if err != nil {
		return err
	}

	session := repl.NewSession(env, host.Logger,
		host.evalOptions(lang.NewNamedSource(replSource, ""), r.MergeDeps)...)

	for _, path := range r.Load {
		src, err := host.source(path, "")
		if err != nil {
			return err
		}

		if _, err := session.Load(ctx, src, host.evalOptions(src, r.MergeDeps)...); err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "repl"),
				slog.String("source", path),
			)
		}
	}

	if f, ok := host.Stdin.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return repl.RunLines(ctx, session, host.Stdin, host.Stdout)
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, repl.Options{
		Importer: host.Importer,
		CacheDir: cacheDir,
		Logger:   host.Logger,
	})
}
