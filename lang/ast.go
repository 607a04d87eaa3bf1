package lang

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/nixeval/log"
)

// DefaultMaxDepth bounds expression nesting during parsing.
const DefaultMaxDepth = 512

// AST is the parsed form of one source input.
type AST struct {
	Source   *Source
	Root     Node
	logger   log.Logger
	maxDepth int
}

// Option configures parsing.
type Option func(*AST)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Non-positive values select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(ast *AST) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		ast.maxDepth = depth
	}
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger.With(slog.String("component", "parser"))
	}
}

// Logger returns the logger configured with [WithLogger].
func (ast *AST) Logger() log.Logger { return ast.logger }

// Node is implemented by every AST node. Nodes are immutable once built.
type Node interface {
	Span() Span
	node()
}

// Literal is a constant: a string, path, bracketed path, number, boolean or
// null. Text refers into the source; for strings it excludes the quotes and
// for bracketed paths the angle brackets.
type Literal struct {
	Text string
	Loc  Span
	Int  int64
	Flo  float64
	Type Type
	Bool bool
}

// Ident references a name, resolved in the evaluation environment.
type Ident struct {
	Name string
	Loc  Span
}

// UnaryExpr applies a prefix operator: [TokenArithNegation] or
// [TokenLogicalNegation].
type UnaryExpr struct {
	Operand Node
	Loc     Span
	Op      TokenKind
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Left  Node
	Right Node
	Loc   Span
	Op    TokenKind
}

// Binding associates a name with an expression inside a set or let.
// Inherited bindings come from "inherit name;" and evaluate the name in the
// enclosing scope.
type Binding struct {
	Expr      Node
	Name      string
	Loc       Span
	Inherited bool
}

// Bindings is the ordered set of bindings of a set or let. Keys are unique;
// a repeated key replaces the earlier expression.
type Bindings = Attrs[*Binding]

// SetExpr is an attribute set literal. Bindings of a recursive set see each
// other.
type SetExpr struct {
	Bindings *Bindings
	Loc      Span
	Rec      bool
}

// ListExpr is a list literal.
type ListExpr struct {
	Elems []Node
	Loc   Span
}

// LetExpr binds names for the evaluation of Body.
type LetExpr struct {
	Bindings *Bindings
	Body     Node
	Loc      Span
}

// WithExpr brings the attributes of Scope into scope for Body.
type WithExpr struct {
	Scope Node
	Body  Node
	Loc   Span
}

// IfExpr selects Then or Else by Cond.
type IfExpr struct {
	Cond Node
	Then Node
	Else Node
	Loc  Span
}

// SelectExpr reads attribute Field of Target.
type SelectExpr struct {
	Target Node
	Field  string
	Loc    Span
}

// ApplyExpr calls Func with Arg.
type ApplyExpr struct {
	Func Node
	Arg  Node
	Loc  Span
}

func (n *Literal) Span() Span    { return n.Loc }
func (n *Ident) Span() Span      { return n.Loc }
func (n *UnaryExpr) Span() Span  { return n.Loc }
func (n *BinaryExpr) Span() Span { return n.Loc }
func (n *Binding) Span() Span    { return n.Loc }
func (n *SetExpr) Span() Span    { return n.Loc }
func (n *ListExpr) Span() Span   { return n.Loc }
func (n *LetExpr) Span() Span    { return n.Loc }
func (n *WithExpr) Span() Span   { return n.Loc }
func (n *IfExpr) Span() Span     { return n.Loc }
func (n *SelectExpr) Span() Span { return n.Loc }
func (n *ApplyExpr) Span() Span  { return n.Loc }

func (*Literal) node()    {}
func (*Ident) node()      {}
func (*UnaryExpr) node()  {}
func (*BinaryExpr) node() {}
func (*Binding) node()    {}
func (*SetExpr) node()    {}
func (*ListExpr) node()   {}
func (*LetExpr) node()    {}
func (*WithExpr) node()   {}
func (*IfExpr) node()     {}
func (*SelectExpr) node() {}
func (*ApplyExpr) node()  {}

// NodeName returns the variant name of n, as used in tree dumps.
func NodeName(n Node) string {
	switch n := n.(type) {
	case *Literal:
		return n.Type.String()
	case *Ident:
		return "Ident"
	case *UnaryExpr:
		return n.Op.String()
	case *BinaryExpr:
		return n.Op.String()
	case *Binding:
		return "Binding"
	case *SetExpr:
		if n.Rec {
			return "RecSet"
		}

		return "Set"
	case *ListExpr:
		return "List"
	case *LetExpr:
		return "Let"
	case *WithExpr:
		return "With"
	case *IfExpr:
		return "If"
	case *SelectExpr:
		return "Select"
	case *ApplyExpr:
		return "Apply"
	default:
		return "invalid"
	}
}

// Print writes an indented tree dump of the AST to w.
func (ast *AST) Print(w io.Writer) error {
	var sb strings.Builder

	printNode(&sb, ast.Root, 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

// Describe renders n in the compact functional notation used by tests and
// diagnostics, such as Sub(Sub(Int(4), Flo(3.45)), Int(1)).
func Describe(n Node) string {
	var sb strings.Builder

	describe(&sb, n)

	return sb.String()
}

func describe(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(n.Type.String())
		sb.WriteByte('(')
		sb.WriteString(literalText(n))
		sb.WriteByte(')')

	case *Ident:
		sb.WriteString("Ident(")
		sb.WriteString(n.Name)
		sb.WriteByte(')')

	case *UnaryExpr:
		sb.WriteString(n.Op.String())
		sb.WriteByte('(')
		describe(sb, n.Operand)
		sb.WriteByte(')')

	case *BinaryExpr:
		sb.WriteString(n.Op.String())
		sb.WriteByte('(')
		describe(sb, n.Left)
		sb.WriteString(", ")
		describe(sb, n.Right)
		sb.WriteByte(')')

	case *SetExpr:
		describeBindings(sb, NodeName(n), n.Bindings, nil)
	case *LetExpr:
		describeBindings(sb, "Let", n.Bindings, n.Body)

	case *ListExpr:
		sb.WriteString("List(")

		for i, e := range n.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			describe(sb, e)
		}

		sb.WriteByte(')')

	case *WithExpr:
		describeCall(sb, "With", n.Scope, n.Body)
	case *IfExpr:
		describeCall(sb, "If", n.Cond, n.Then, n.Else)
	case *ApplyExpr:
		describeCall(sb, "Apply", n.Func, n.Arg)

	case *SelectExpr:
		sb.WriteString("Select(")
		describe(sb, n.Target)
		sb.WriteString(", ")
		sb.WriteString(n.Field)
		sb.WriteByte(')')

	default:
		sb.WriteString("invalid")
	}
}

func describeBindings(
	sb *strings.Builder,
	name string,
	bindings *Bindings,
	body Node,
) {
	sb.WriteString(name)
	sb.WriteString("({")

	i := 0

	for key, b := range bindings.All() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(key)
		sb.WriteString(": ")
		describe(sb, b.Expr)

		i++
	}

	sb.WriteByte('}')

	if body != nil {
		sb.WriteString(", ")
		describe(sb, body)
	}

	sb.WriteByte(')')
}

func describeCall(sb *strings.Builder, name string, args ...Node) {
	sb.WriteString(name)
	sb.WriteByte('(')

	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}

		describe(sb, a)
	}

	sb.WriteByte(')')
}

func printNode(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(NodeName(n))

	switch n := n.(type) {
	case *Literal:
		sb.WriteByte(' ')
		sb.WriteString(literalText(n))
		sb.WriteByte('\n')

	case *Ident:
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
		sb.WriteByte('\n')

	case *UnaryExpr:
		sb.WriteByte('\n')
		printNode(sb, n.Operand, depth+1)

	case *BinaryExpr:
		sb.WriteByte('\n')
		printNode(sb, n.Left, depth+1)
		printNode(sb, n.Right, depth+1)

	case *SetExpr:
		sb.WriteByte('\n')
		printBindings(sb, n.Bindings, depth+1)

	case *LetExpr:
		sb.WriteByte('\n')
		printBindings(sb, n.Bindings, depth+1)
		printNode(sb, n.Body, depth+1)

	case *ListExpr:
		sb.WriteByte('\n')

		for _, e := range n.Elems {
			printNode(sb, e, depth+1)
		}

	case *WithExpr:
		sb.WriteByte('\n')
		printNode(sb, n.Scope, depth+1)
		printNode(sb, n.Body, depth+1)

	case *IfExpr:
		sb.WriteByte('\n')
		printNode(sb, n.Cond, depth+1)
		printNode(sb, n.Then, depth+1)
		printNode(sb, n.Else, depth+1)

	case *SelectExpr:
		sb.WriteString(" ." + n.Field + "\n")
		printNode(sb, n.Target, depth+1)

	case *ApplyExpr:
		sb.WriteByte('\n')
		printNode(sb, n.Func, depth+1)
		printNode(sb, n.Arg, depth+1)

	default:
		sb.WriteByte('\n')
	}
}

func printBindings(sb *strings.Builder, bindings *Bindings, depth int) {
	for name, b := range bindings.All() {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(name)

		if b.Inherited {
			sb.WriteString(" (inherited)\n")

			continue
		}

		sb.WriteString(" =\n")
		printNode(sb, b.Expr, depth+1)
	}
}

func literalText(n *Literal) string {
	switch n.Type {
	case TypeInt:
		return formatInt(n.Int)
	case TypeFlo:
		return formatFloat(n.Flo)
	case TypeBool:
		if n.Bool {
			return "true"
		}

		return "false"
	case TypeNull:
		return "null"
	default:
		return n.Text
	}
}
