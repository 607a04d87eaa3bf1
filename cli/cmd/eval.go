package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/nixeval/lang"
)

// Output formats of evaluated values.
const (
	formatNative = "native"
	formatJSON   = "json"
	formatYAML   = "yaml"
)

// Eval evaluates a source and prints the resulting value.
type Eval struct {
	Format    string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})."                            short:"o"`
	Indent    int    `default:"2"                              help:"Indent width for JSON and YAML output."               short:"i"`
	Attr      string `                                         help:"Print the attribute at this dot-separated path."      short:"A"`
	Strict    bool   `                                         help:"Fail on unbound names instead of deferring them."`
	MergeDeps bool   `                                         help:"Merge the dependencies of two deferred operands."`

	Expr   string `help:"Evaluate the given expression instead of a source file." short:"e"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	ast, err := host.parse(ctx, e.Source, e.Expr)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	env, err := host.Env(e.Strict)
	if err != nil {
		return err
	}

	v, err := lang.EvalAST(ctx, ast, env, host.evalOptions(ast.Source, e.MergeDeps)...)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("source", ast.Source.Name()),
		)
	}

	v, err = selectAttr(v, e.Attr)
	if err != nil {
		return err
	}

	if dep, ok := v.(lang.Dep); ok {
		host.Logger.WarnContext(ctx, ErrUnbound.Error(),
			slog.String("names", strings.Join(dep.Names(), ",")))
	}

	return writeValue(ctx, host.Stdout, v, e.Format, e.Indent)
}

// selectAttr follows the dot-separated attribute path from v. Selecting from
// a [lang.Dep] yields the Dep itself.
func selectAttr(v lang.Value, path string) (lang.Value, error) {
	if path == "" {
		return v, nil
	}

	for part := range strings.SplitSeq(path, ".") {
		switch s := v.(type) {
		case lang.Dep:
			return s, nil

		case *lang.Set:
			next, ok := s.Get(part)
			if !ok {
				return nil, lang.ErrMissingAttribute.
					Detailf("%q", part).
					With(slog.String("path", path))
			}

			v = next

		default:
			return nil, ErrNotSet.With(
				slog.String("path", path),
				slog.String("attribute", part),
				slog.String("type", v.Type().String()),
			)
		}
	}

	return v, nil
}

// writeValue writes v to w in the named output format.
func writeValue(ctx context.Context, w io.Writer, v lang.Value, format string, indent int) error {
	var err error

	switch format {
	case formatJSON:
		err = lang.WriteJSON(w, lang.Encodable(v), indent)
	case formatYAML:
		err = lang.WriteYAML(ctx, w, lang.Encodable(v), indent)
	default:
		_, err = fmt.Fprintln(w, lang.FormatValue(v))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
