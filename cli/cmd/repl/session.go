package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

// Session evaluates lines in a persistent environment. A line of the form
// "name = expr" binds name for the lines that follow; any other line is an
// expression whose value is printed.
type Session struct {
	env    *lang.Env
	opts   []lang.EvalOption
	logger log.Logger
	bound  []string // names bound in this session, in binding order
}

// NewSession returns a session evaluating in env with opts.
func NewSession(env *lang.Env, logger log.Logger, opts ...lang.EvalOption) *Session {
	if env == nil {
		env = lang.Builtins()
	}

	return &Session{env: env, opts: opts, logger: logger}
}

// Result is the outcome of one evaluated line. Name is set when the line
// bound a name.
type Result struct {
	Value lang.Value
	Name  string
}

func (r Result) String() string {
	if r.Name != "" {
		return r.Name + " = " + lang.FormatValue(r.Value)
	}

	return lang.FormatValue(r.Value)
}

// Eval evaluates one line of input.
func (s *Session) Eval(ctx context.Context, line string) (Result, error) {
	src := lang.NewNamedSource("<repl>", line)
	name, expr := splitBinding(src)

	ast, err := lang.Parse(ctx, lang.NewNamedSource("<repl>", expr), lang.WithLogger(s.logger))
	if err != nil {
		return Result{}, err
	}

	v, err := lang.EvalAST(ctx, ast, s.env, s.opts...)
	if err != nil {
		return Result{}, err
	}

	if name != "" {
		s.bind(name, v)
		s.logger.TraceContext(ctx, "repl bind",
			slog.String("name", name),
			slog.String("type", v.Type().String()),
		)
	}

	return Result{Value: v, Name: name}, nil
}

// splitBinding separates a leading "name =" from src, returning the name
// and the text of the bound expression without a trailing semicolon. Input
// that is not a binding is returned whole with an empty name.
func splitBinding(src *lang.Source) (name, expr string) {
	lex := lang.NewLexer(src)

	first, err := lex.Next()
	if err != nil || first.Kind != lang.TokenIdent {
		return "", src.String()
	}

	second, err := lex.Next()
	if err != nil || second.Kind != lang.TokenAssign {
		return "", src.String()
	}

	rest := strings.TrimSpace(src.String()[second.Span.End():])

	return first.Text(src), strings.TrimSpace(strings.TrimSuffix(rest, ";"))
}

// Load evaluates src and binds each attribute of the resulting set. It
// returns the bound names.
func (s *Session) Load(ctx context.Context, src *lang.Source, opts ...lang.EvalOption) ([]string, error) {
	ast, err := lang.Parse(ctx, src, lang.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	v, err := lang.EvalAST(ctx, ast, s.env, append(slices.Clip(s.opts), opts...)...)
	if err != nil {
		return nil, err
	}

	set, ok := v.(*lang.Set)
	if !ok {
		return nil, ErrNotSet
	}

	names := set.Keys()
	for name, e := range set.All() {
		s.bind(name, e)
	}

	s.logger.DebugContext(ctx, "repl load",
		slog.String("source", src.Name()),
		slog.Int("bindings", len(names)),
	)

	return names, nil
}

// bind replaces the binding of name in the session frame.
func (s *Session) bind(name string, v lang.Value) {
	s.env.Delete(name)
	_ = s.env.Set(name, v)

	s.bound = slices.DeleteFunc(s.bound, func(n string) bool { return n == name })
	s.bound = append(s.bound, name)
}

// Unbind removes a name bound in this session.
func (s *Session) Unbind(name string) bool {
	if !slices.Contains(s.bound, name) {
		return false
	}

	s.env.Delete(name)
	s.bound = slices.DeleteFunc(s.bound, func(n string) bool { return n == name })

	return true
}

// Bound returns the names bound in this session, in binding order.
func (s *Session) Bound() []string { return slices.Clone(s.bound) }

// Names returns every name visible to expressions, sorted.
func (s *Session) Names() []string { return s.env.Names() }

// Lookup resolves a dot-separated attribute path.
func (s *Session) Lookup(path string) (lang.Value, bool) {
	head, rest, _ := strings.Cut(path, ".")

	v, err := s.env.Resolve(head)
	if err != nil || lang.IsDep(v) {
		return nil, false
	}

	for rest != "" {
		var field string

		field, rest, _ = strings.Cut(rest, ".")

		set, ok := v.(*lang.Set)
		if !ok {
			return nil, false
		}

		if v, ok = set.Get(field); !ok {
			return nil, false
		}
	}

	return v, true
}
