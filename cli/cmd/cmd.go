package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Host holds the state shared by every command: the bindings given on the
// command line, the import resolver, and the standard streams.
type Host struct {
	// Bindings are bound in the user frame of every evaluation environment.
	Bindings *lang.Set

	// Importer returns the importer used to evaluate the source named name.
	// A nil Importer, or one returning nil, leaves imports unresolved.
	Importer func(name string) lang.Importer

	Stdin  io.Reader
	Stdout io.Writer
	Logger log.Logger
}

type hostKey struct{}

// WithHost returns a new context.Context containing host.
func WithHost(ctx context.Context, host *Host) context.Context {
	return context.WithValue(ctx, hostKey{}, host)
}

// hostFrom returns the Host stored in ctx with missing fields defaulted.
func hostFrom(ctx context.Context) *Host {
	var host Host

	if h, ok := ctx.Value(hostKey{}).(*Host); ok && h != nil {
		host = *h
	}

	if host.Stdin == nil {
		host.Stdin = os.Stdin
	}

	if host.Stdout == nil {
		host.Stdout = os.Stdout
	}

	if host.Logger.Slog() == nil {
		host.Logger = log.Default()
	}

	return &host
}

// Env returns a new environment binding the builtins and the host bindings.
// A strict environment fails on unbound names instead of deferring them.
func (h *Host) Env(strict bool) (*lang.Env, error) {
	env := lang.Builtins()
	env.AllowDep = !strict

	if h.Bindings == nil {
		return env, nil
	}

	for name, v := range h.Bindings.All() {
		if err := env.Set(name, v); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// evalOptions returns the options evaluating src with the host importer.
func (h *Host) evalOptions(src *lang.Source, mergeDeps bool) []lang.EvalOption {
	opts := []lang.EvalOption{
		lang.WithEvalLogger(h.Logger),
		lang.WithMergeDeps(mergeDeps),
	}

	if h.Importer != nil {
		if imp := h.Importer(src.Name()); imp != nil {
			opts = append(opts, lang.WithImporter(imp))
		}
	}

	return opts
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// exprSource names sources given inline with --expr.
const exprSource = "<expr>"

// source returns the input of a command: expr when non-empty, else the named
// file, or stdin when name is "-".
func (h *Host) source(name, expr string) (*lang.Source, error) {
	if expr != "" {
		return lang.NewNamedSource(exprSource, expr), nil
	}

	var (
		data []byte
		err  error
	)

	if name == stdinSource || name == "" {
		name = "<stdin>"
		data, err = io.ReadAll(h.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}

	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	return lang.NewNamedSource(name, string(data)), nil
}

// parse reads and parses the input of a command.
func (h *Host) parse(ctx context.Context, name, expr string) (*lang.AST, error) {
	src, err := h.source(name, expr)
	if err != nil {
		return nil, err
	}

	ast, err := lang.Parse(ctx, src, lang.WithLogger(h.Logger))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("source", src.Name()))
	}

	return ast, nil
}
