package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/nixeval/lang"
)

// Tokens prints the tokens of a source, one per line, prefixed by their
// line and column.
type Tokens struct {
	Expr string `help:"Tokenize the given expression instead of a source file." short:"e"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	host := hostFrom(ctx)

	src, err := host.source(t.Source, t.Expr)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(host.Stdout)

	for tok, err := range lang.NewLexer(src).All() {
		if err != nil {
			_ = w.Flush()

			return lang.WrapError(err).
				With(slog.String("command", "tokens"), slog.String("source", src.Name()))
		}

		pos := src.Position(tok.Span.Offset)
		fmt.Fprintf(w, "%s\t%s\n", pos, tok.Format(src))
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
