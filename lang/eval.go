package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/nixeval/log"
)

// Importer loads the expression an import refers to. The path is a [Path],
// [NixPath] or [Str] value.
type Importer interface {
	Import(ctx context.Context, path Value) (Value, error)
}

// ImporterFunc adapts a function to the [Importer] interface.
type ImporterFunc func(ctx context.Context, path Value) (Value, error)

// Import calls f.
func (f ImporterFunc) Import(ctx context.Context, path Value) (Value, error) {
	return f(ctx, path)
}

// EvalOption configures evaluation.
type EvalOption func(*evaluator)

// WithImporter sets the importer used by the import builtin. Without one,
// imports evaluate to a [Dep] on the imported path.
func WithImporter(imp Importer) EvalOption {
	return func(ev *evaluator) { ev.importer = imp }
}

// WithMergeDeps makes a binary operation on two [Dep] operands yield a Dep on
// the names of both, instead of failing with [ErrUnresolvedDep].
func WithMergeDeps(merge bool) EvalOption {
	return func(ev *evaluator) { ev.mergeDeps = merge }
}

// WithEvalLogger sets the logger used to trace evaluation.
func WithEvalLogger(logger log.Logger) EvalOption {
	return func(ev *evaluator) {
		ev.logger = logger.With(slog.String("component", "evaluator"))
	}
}

// WithSource sets the source that node spans refer to, so that evaluation
// errors carry positions.
func WithSource(src *Source) EvalOption {
	return func(ev *evaluator) { ev.src = src }
}

type evaluator struct {
	importer  Importer
	src       *Source
	logger    log.Logger
	mergeDeps bool
}

// Eval evaluates node in env. A nil env is replaced by [Builtins].
func Eval(ctx context.Context, node Node, env *Env, opts ...EvalOption) (Value, error) {
	ev := &evaluator{}

	for _, opt := range opts {
		opt(ev)
	}

	if env == nil {
		env = Builtins()
	}

	ev.logger.TraceContext(ctx, "evaluate",
		slog.String("root", NodeName(node)),
		slog.Int("depth", env.Depth()),
	)

	v, err := ev.eval(ctx, node, env)
	if err != nil {
		return nil, err
	}

	ev.logger.TraceContext(ctx, "evaluate complete",
		slog.String("type", v.Type().String()))

	return v, nil
}

// EvalAST evaluates the root of ast in env, reporting error positions in the
// AST's source.
func EvalAST(ctx context.Context, ast *AST, env *Env, opts ...EvalOption) (Value, error) {
	opts = append([]EvalOption{WithSource(ast.Source)}, opts...)

	return Eval(ctx, ast.Root, env, opts...)
}

// fail locates err at the start of n when it has no position yet.
func (ev *evaluator) fail(err *Error, n Node) error {
	if ev.src != nil && err.pos == nil && n != nil {
		return err.WithPosition(ev.src.Position(n.Span().Offset))
	}

	return err
}

func (ev *evaluator) eval(ctx context.Context, n Node, env *Env) (Value, error) {
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	switch n := n.(type) {
	case *Literal:
		return literalValue(n), nil

	case *Ident:
		v, err := env.Resolve(n.Name)
		if err != nil {
			return nil, ev.located(err, n)
		}

		return v, nil

	case *UnaryExpr:
		return ev.unary(ctx, n, env)
	case *BinaryExpr:
		return ev.binary(ctx, n, env)
	case *SetExpr:
		return ev.set(ctx, n, env)
	case *ListExpr:
		return ev.list(ctx, n, env)
	case *LetExpr:
		return ev.let(ctx, n, env)
	case *WithExpr:
		return ev.with(ctx, n, env)
	case *IfExpr:
		return ev.cond(ctx, n, env)
	case *SelectExpr:
		return ev.selectField(ctx, n, env)

	case *ApplyExpr:
		fn, err := ev.eval(ctx, n.Func, env)
		if err != nil {
			return nil, err
		}

		arg, err := ev.eval(ctx, n.Arg, env)
		if err != nil {
			return nil, err
		}

		v, err := ev.Apply(ctx, fn, arg)
		if err != nil {
			return nil, ev.located(err, n)
		}

		return v, nil
	}

	return nil, ev.fail(ErrUnsupported.Detailf("%s", NodeName(n)), n)
}

// located adds the position of n to err if err is an *Error without one.
func (ev *evaluator) located(err error, n Node) error {
	if e, ok := err.(*Error); ok {
		return ev.fail(e, n)
	}

	return err
}

func literalValue(n *Literal) Value {
	switch n.Type {
	case TypeStr:
		return Str(n.Text)
	case TypePath:
		return Path(n.Text)
	case TypeNixPath:
		return NixPath(n.Text)
	case TypeInt:
		return Int(n.Int)
	case TypeFlo:
		return Flo(n.Flo)
	case TypeBool:
		return Bool(n.Bool)
	default:
		return Null{}
	}
}

func (ev *evaluator) mismatch(op TokenKind, n Node, operands ...Value) error {
	types := make([]string, len(operands))
	for i, v := range operands {
		types[i] = v.Type().String()
	}

	return ev.fail(ErrTypeMismatch.
		Detailf("operator %s cannot be applied to %v", op.Symbol(), types).
		With(slog.String("operator", op.String())), n)
}

func (ev *evaluator) unary(ctx context.Context, n *UnaryExpr, env *Env) (Value, error) {
	v, err := ev.eval(ctx, n.Operand, env)
	if err != nil {
		return nil, err
	}

	if IsDep(v) {
		return v, nil
	}

	switch n.Op {
	case TokenArithNegation:
		switch v := v.(type) {
		case Int:
			return -v, nil
		case Flo:
			return -v, nil
		}

	case TokenLogicalNegation:
		if b, ok := v.(Bool); ok {
			return !b, nil
		}

	default:
		return nil, ev.fail(ErrUnsupported.Detailf("unary %s", n.Op), n)
	}

	return nil, ev.mismatch(n.Op, n, v)
}

func (ev *evaluator) binary(ctx context.Context, n *BinaryExpr, env *Env) (Value, error) {
	left, err := ev.eval(ctx, n.Left, env)
	if err != nil {
		return nil, err
	}

	if n.Op == TokenHas {
		return ev.has(ctx, n, left, env)
	}

	if d, ok := left.(Dep); ok {
		return ev.absorb(ctx, n, d, env)
	}

	switch n.Op {
	case TokenAnd, TokenOr, TokenArrow:
		return ev.logical(ctx, n, left, env)
	}

	right, err := ev.eval(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	if IsDep(right) {
		return right, nil
	}

	switch n.Op {
	case TokenEquals:
		return Bool(Equal(left, right)), nil
	case TokenNotEquals:
		return Bool(!Equal(left, right)), nil
	case TokenAdd:
		return ev.add(n, left, right)
	case TokenSub, TokenMult, TokenDiv:
		return ev.arith(n, left, right)
	case TokenLess, TokenLessOrEquals, TokenMore, TokenMoreOrEquals:
		return ev.compare(n, left, right)

	case TokenConcat:
		l, lok := left.(List)
		r, rok := right.(List)

		if lok && rok {
			return slices.Concat(l, r), nil
		}

	case TokenUpdate:
		l, lok := left.(*Set)
		r, rok := right.(*Set)

		if lok && rok {
			out := &Set{Attrs: *l.Clone()}
			for k, v := range r.All() {
				out.Set(k, v)
			}

			return out, nil
		}

	default:
		return nil, ev.fail(ErrUnsupported.Detailf("binary %s", n.Op), n)
	}

	return nil, ev.mismatch(n.Op, n, left, right)
}

// absorb handles a binary operation whose left operand is the Dep d. The
// right operand is still evaluated so that errors in it surface.
func (ev *evaluator) absorb(ctx context.Context, n *BinaryExpr, d Dep, env *Env) (Value, error) {
	right, err := ev.eval(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	r, ok := right.(Dep)
	if !ok {
		return d, nil
	}

	if ev.mergeDeps {
		return d.Union(r), nil
	}

	return nil, ev.fail(ErrUnresolvedDep.
		Detailf("%s %s %s", d, n.Op.Symbol(), r).
		With(
			slog.Any("left", d.Names()),
			slog.Any("right", r.Names()),
		), n)
}

func (ev *evaluator) logical(ctx context.Context, n *BinaryExpr, left Value, env *Env) (Value, error) {
	l, ok := left.(Bool)
	if !ok {
		return nil, ev.mismatch(n.Op, n.Left, left)
	}

	switch {
	case n.Op == TokenOr && bool(l):
		return Bool(true), nil
	case n.Op == TokenAnd && !bool(l):
		return Bool(false), nil
	case n.Op == TokenArrow && !bool(l):
		return Bool(true), nil
	}

	right, err := ev.eval(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	if IsDep(right) {
		return right, nil
	}

	r, ok := right.(Bool)
	if !ok {
		return nil, ev.mismatch(n.Op, n.Right, right)
	}

	// The left operand did not decide the result, so the right one does.
	return r, nil
}

func (ev *evaluator) has(ctx context.Context, n *BinaryExpr, left Value, env *Env) (Value, error) {
	if IsDep(left) {
		return left, nil
	}

	var name string

	switch r := n.Right.(type) {
	case *Ident:
		name = r.Name
	case *Literal:
		if r.Type != TypeStr {
			return nil, ev.mismatch(n.Op, n.Right, literalValue(r))
		}

		name = r.Text
	default:
		v, err := ev.eval(ctx, r, env)
		if err != nil {
			return nil, err
		}

		s, ok := v.(Str)
		if !ok {
			return nil, ev.mismatch(n.Op, n.Right, v)
		}

		name = string(s)
	}

	s, ok := left.(*Set)
	if !ok {
		return nil, ev.mismatch(n.Op, n.Left, left)
	}

	return Bool(s.Has(name)), nil
}

func (ev *evaluator) add(n *BinaryExpr, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Str:
		switch r := right.(type) {
		case Str:
			return l + r, nil
		case Path:
			return l + Str(r), nil
		}

	case Path:
		switch r := right.(type) {
		case Str:
			return l + Path(r), nil
		case Path:
			return l + r, nil
		}
	}

	return ev.arith(n, left, right)
}

func (ev *evaluator) arith(n *BinaryExpr, left, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			switch n.Op {
			case TokenAdd:
				return l + r, nil
			case TokenSub:
				return l - r, nil
			case TokenMult:
				return l * r, nil
			case TokenDiv:
				if r == 0 {
					return nil, ev.fail(ErrDivisionByZero, n)
				}

				return l / r, nil
			}
		}
	}

	l, lok := toFloat(left)
	r, rok := toFloat(right)

	if !lok || !rok {
		return nil, ev.mismatch(n.Op, n, left, right)
	}

	switch n.Op {
	case TokenAdd:
		return Flo(l + r), nil
	case TokenSub:
		return Flo(l - r), nil
	case TokenMult:
		return Flo(l * r), nil
	case TokenDiv:
		if r == 0 {
			return nil, ev.fail(ErrDivisionByZero, n)
		}

		return Flo(l / r), nil
	}

	return nil, ev.fail(ErrUnsupported.Detailf("arithmetic %s", n.Op), n)
}

func (ev *evaluator) compare(n *BinaryExpr, left, right Value) (Value, error) {
	cmp, ok := order(left, right)
	if !ok {
		return nil, ev.mismatch(n.Op, n, left, right)
	}

	switch n.Op {
	case TokenLess:
		return Bool(cmp < 0), nil
	case TokenLessOrEquals:
		return Bool(cmp <= 0), nil
	case TokenMore:
		return Bool(cmp > 0), nil
	default:
		return Bool(cmp >= 0), nil
	}
}

// order compares two numbers, two strings or two paths.
func order(left, right Value) (int, bool) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return cmpOrdered(l, r), true
		}
	}

	if l, ok := toFloat(left); ok {
		if r, ok := toFloat(right); ok {
			return cmpOrdered(l, r), true
		}

		return 0, false
	}

	switch l := left.(type) {
	case Str:
		if r, ok := right.(Str); ok {
			return cmpOrdered(l, r), true
		}
	case Path:
		if r, ok := right.(Path); ok {
			return cmpOrdered(l, r), true
		}
	}

	return 0, false
}

func cmpOrdered[T Int | Flo | float64 | Str | Path](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func (ev *evaluator) list(ctx context.Context, n *ListExpr, env *Env) (Value, error) {
	out := make(List, 0, len(n.Elems))

	for _, e := range n.Elems {
		v, err := ev.eval(ctx, e, env)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (ev *evaluator) set(ctx context.Context, n *SetExpr, env *Env) (Value, error) {
	if n.Rec {
		env.Push()
		defer env.Pop()

		ev.bind(ctx, n.Bindings, env)
	}

	out := NewSet()

	for name, b := range n.Bindings.All() {
		var (
			v   Value
			err error
		)

		if n.Rec {
			v, err = env.Resolve(name)
			err = ev.located(err, b)
		} else {
			v, err = ev.eval(ctx, b.Expr, env)
		}

		if err != nil {
			return nil, err
		}

		out.Set(name, v)
	}

	return out, nil
}

// bind defines every binding in the innermost frame of env, to be evaluated
// on first use. Ordinary bindings see the frame they are defined in; inherited
// ones see only the enclosing frames.
func (ev *evaluator) bind(ctx context.Context, bindings *Bindings, env *Env) {
	depth := env.Depth()

	for name, b := range bindings.All() {
		scope := env.view(depth)
		if b.Inherited {
			scope = env.view(depth - 1)
		}

		env.define(name, func() (Value, error) {
			return ev.eval(ctx, b.Expr, scope)
		})
	}
}

func (ev *evaluator) let(ctx context.Context, n *LetExpr, env *Env) (Value, error) {
	env.Push()
	defer env.Pop()

	ev.bind(ctx, n.Bindings, env)

	return ev.eval(ctx, n.Body, env)
}

func (ev *evaluator) with(ctx context.Context, n *WithExpr, env *Env) (Value, error) {
	scope, err := ev.eval(ctx, n.Scope, env)
	if err != nil {
		return nil, err
	}

	switch s := scope.(type) {
	case Dep:
		return ev.eval(ctx, n.Body, env)

	case *Set:
		env.Push()
		defer env.Pop()

		env.Attach(s)
		defer env.Detach()

		return ev.eval(ctx, n.Body, env)
	}

	return nil, ev.fail(ErrTypeMismatch.
		Detailf("with expects a Set, found %s", scope.Type()), n.Scope)
}

func (ev *evaluator) cond(ctx context.Context, n *IfExpr, env *Env) (Value, error) {
	c, err := ev.eval(ctx, n.Cond, env)
	if err != nil {
		return nil, err
	}

	switch c := c.(type) {
	case Dep:
		return c, nil

	case Bool:
		if c {
			return ev.eval(ctx, n.Then, env)
		}

		return ev.eval(ctx, n.Else, env)
	}

	return nil, ev.fail(ErrTypeMismatch.
		Detailf("if expects a Bool condition, found %s", c.Type()), n.Cond)
}

func (ev *evaluator) selectField(ctx context.Context, n *SelectExpr, env *Env) (Value, error) {
	target, err := ev.eval(ctx, n.Target, env)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case Dep:
		return t, nil

	case *Set:
		v, ok := t.Get(n.Field)
		if !ok {
			return nil, ev.fail(ErrMissingAttribute.
				Detailf("%q", n.Field).
				With(slog.Any("available", t.Keys())), n)
		}

		return v, nil
	}

	return nil, ev.fail(ErrTypeMismatch.
		Detailf("cannot select %q from %s", n.Field, target.Type()), n)
}

// Apply calls fn with arg. Applying a [Func] to fewer arguments than its
// arity yields a [PFunc]; a [Dep] function or argument yields a Dep.
func (ev *evaluator) Apply(ctx context.Context, fn, arg Value) (Value, error) {
	if d, ok := fn.(Dep); ok {
		if a, ok := arg.(Dep); ok {
			return d.Union(a), nil
		}

		return d, nil
	}

	var (
		f    *Func
		args []Value
	)

	switch fn := fn.(type) {
	case *Func:
		f = fn
	case *PFunc:
		f, args = fn.Func, fn.Args
	default:
		return nil, ErrNotCallable.Detailf("%s", fn.Type())
	}

	if IsDep(arg) {
		return arg, nil
	}

	args = append(slices.Clip(args), arg)

	if len(args) < f.Arity {
		return &PFunc{Func: f, Args: args}, nil
	}

	return f.Call(ctx, ev, args)
}

// Import loads path through the configured [Importer].
func (ev *evaluator) Import(ctx context.Context, path Value) (Value, error) {
	switch path.(type) {
	case Dep:
		return path, nil
	case Path, NixPath, Str:
	default:
		return nil, ErrTypeMismatch.Detailf("import expects a path, found %s", path.Type())
	}

	if ev.importer == nil {
		return NewDep(FormatValue(path)), nil
	}

	ev.logger.TraceContext(ctx, "import", slog.String("path", FormatValue(path)))

	v, err := ev.importer.Import(ctx, path)
	if err != nil {
		return nil, ErrImport.Detailf("%s", FormatValue(path)).Wrap(err)
	}

	return v, nil
}
