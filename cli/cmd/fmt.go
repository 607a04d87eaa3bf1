package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/nixeval/lang"
)

// Fmt parses a source and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// Native formats input as canonical source.
type Native struct {
	Indent int  `default:"2" help:"Indent width for formatted output; 0 writes one line." short:"i"`
	Write  bool `            help:"Write the result back to the source file."             short:"w"`

	Expr   string `help:"Format the given expression instead of a source file." short:"e"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	ast, err := host.parse(ctx, f.Source, f.Expr)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "native"))
	}

	if !f.Write || f.Expr != "" || f.Source == stdinSource {
		return writeFormatted(host.Stdout, ast, f.Indent)
	}

	info, err := os.Stat(f.Source)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", f.Source))
	}

	file, err := os.OpenFile(f.Source, os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", f.Source))
	}

	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = ErrWriteOutput.Wrap(cerr).With(slog.String("file", f.Source))
		}
	}()

	return writeFormatted(file, ast, f.Indent)
}

func writeFormatted(w io.Writer, ast *lang.AST, indent int) error {
	if err := lang.Format(w, ast.Root, indent); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// JSON parses input and outputs its syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Expr   string `help:"Format the given expression instead of a source file." short:"e"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	ast, err := host.parse(ctx, j.Source, j.Expr)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "json"))
	}

	if err := lang.WriteJSON(host.Stdout, ast.ToTree(), j.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML parses input and outputs its syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Expr   string `help:"Format the given expression instead of a source file." short:"e"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	ast, err := host.parse(ctx, y.Source, y.Expr)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "yaml"))
	}

	if err := lang.WriteYAML(ctx, host.Stdout, ast.ToTree(), y.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// AST formats input as an indented syntax tree.
type AST struct {
	Expr   string `help:"Format the given expression instead of a source file." short:"e"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	ast, err := host.parse(ctx, a.Source, a.Expr)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "ast"))
	}

	if err := ast.Print(host.Stdout); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", "ast"))
	}

	return nil
}
