package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

const defaultEditor = "vi"

// editSource names the source of text read back from the editor.
const editSource = "<edit>"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// formats the text to a temp file, opens the user's editor, and re-parses the
// result. On parse error the user is asked whether to re-edit; declining
// returns [ErrEditDeclined].
//
// With path set, the text is a whole file and the accepted result is written
// back to path. Otherwise the text is one REPL line, which may bind a name.
type editCommand struct {
	ctxFunc func() context.Context
	retry   func(err error) bool // nil prompts on stdin
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	text    string
	path    string
	result  string // accepted text; empty when the edit was cancelled
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()
	file := c.path != ""

	content := c.text
	if name, ast, err := parseEdit(ctx, content, file); err == nil {
		content = formatEdit(name, ast, 2) + "\n"
	}

	f, err := os.CreateTemp(os.TempDir(), "nixeval-repl-*.nix")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(ctx, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		// A cleared file cancels the edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		_, _, parseErr := parseEdit(ctx, string(data), file)
		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			if file {
				if err := writeKeepMode(c.path, data); err != nil {
					return err
				}
			}

			c.result = string(data)

			return nil
		}

		if !c.confirm(parseErr) {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// confirm reports whether the user wants to re-edit after err.
func (c *editCommand) confirm(err error) bool {
	if c.retry != nil {
		return c.retry(err)
	}

	if c.stderr != nil {
		fmt.Fprintf(c.stderr, "\nParse error: %s\n", err)
	}

	if c.stdout != nil {
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")
	}

	if c.stdin == nil {
		return false
	}

	scanner := bufio.NewScanner(c.stdin)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor launches the user's editor on path. EDITOR may carry arguments,
// such as "code --wait".
func (c *editCommand) runEditor(ctx context.Context, path string) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}

// parseEdit parses text as a whole file, or as one REPL line whose leading
// "name =" is split off and returned.
func parseEdit(ctx context.Context, text string, file bool) (string, *lang.AST, error) {
	if file {
		ast, err := lang.Parse(ctx, lang.NewNamedSource(editSource, text))

		return "", ast, err
	}

	name, expr := splitBinding(lang.NewNamedSource(editSource, text))

	ast, err := lang.Parse(ctx, lang.NewNamedSource(editSource, expr))

	return name, ast, err
}

// formatEdit renders ast, restoring the binding of name when set. An indent
// of zero renders a single line.
func formatEdit(name string, ast *lang.AST, indent int) string {
	var b strings.Builder

	if name != "" {
		b.WriteString(name + " = ")
	}

	if err := lang.Format(&b, ast.Root, indent); err != nil {
		return ast.Source.String()
	}

	return b.String()
}

// compactLine returns text as a single line for the input prompt.
func compactLine(ctx context.Context, text string) string {
	name, ast, err := parseEdit(ctx, text, false)
	if err != nil {
		return strings.Join(strings.Fields(text), " ")
	}

	return formatEdit(name, ast, 0)
}

// writeKeepMode replaces the contents of path, keeping its permissions.
func writeKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	return os.WriteFile(path, data, mode)
}
