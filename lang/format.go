package lang

import (
	"io"
	"strings"
)

// Binding strength of each syntactic form, loosest first. A subexpression is
// parenthesized when it binds more loosely than its position requires.
const (
	precExpr = iota // let, with, if
	precArrow
	precOr
	precAnd
	precEquality
	precRelational
	precUpdate
	precNot
	precAdditive
	precMultiplicative
	precConcat
	precHas
	precNegation
	precApply
	precSelect
	precTerm
)

var binaryPrec = map[TokenKind]int{
	TokenArrow:        precArrow,
	TokenOr:           precOr,
	TokenAnd:          precAnd,
	TokenEquals:       precEquality,
	TokenNotEquals:    precEquality,
	TokenLess:         precRelational,
	TokenLessOrEquals: precRelational,
	TokenMore:         precRelational,
	TokenMoreOrEquals: precRelational,
	TokenUpdate:       precUpdate,
	TokenAdd:          precAdditive,
	TokenSub:          precAdditive,
	TokenMult:         precMultiplicative,
	TokenDiv:          precMultiplicative,
	TokenConcat:       precConcat,
	TokenHas:          precHas,
}

func precedence(n Node) int {
	switch n := n.(type) {
	case *Literal:
		if (n.Type == TypeInt && n.Int < 0) || (n.Type == TypeFlo && n.Flo < 0) {
			return precNegation
		}

		return precTerm
	case *Ident, *SetExpr, *ListExpr:
		return precTerm
	case *SelectExpr:
		return precSelect
	case *ApplyExpr:
		return precApply
	case *UnaryExpr:
		if n.Op == TokenLogicalNegation {
			return precNot
		}

		return precNegation
	case *BinaryExpr:
		return binaryPrec[n.Op]
	default:
		return precExpr
	}
}

// Format writes n to w as canonical source. With a positive indent, sets and
// let bindings are written one per line, indented by that many spaces per
// level; otherwise the output is a single line.
func Format(w io.Writer, n Node, indent int) error {
	p := &printer{indent: max(indent, 0)}
	p.node(n)

	_, err := io.WriteString(w, p.String())

	return err
}

// FormatString returns n formatted on a single line.
func FormatString(n Node) string {
	p := &printer{}
	p.node(n)

	return p.String()
}

type printer struct {
	strings.Builder

	indent int
	level  int
}

func (p *printer) newline() {
	if p.indent == 0 {
		p.WriteByte(' ')

		return
	}

	p.WriteByte('\n')
	p.WriteString(strings.Repeat(" ", p.indent*p.level))
}

// operand prints n, parenthesized when it binds more loosely than prec.
func (p *printer) operand(n Node, prec int) {
	if precedence(n) >= prec {
		p.node(n)

		return
	}

	p.WriteByte('(')
	p.node(n)
	p.WriteByte(')')
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Literal:
		p.literal(n)

	case *Ident:
		p.WriteString(n.Name)

	case *UnaryExpr:
		p.WriteString(n.Op.Symbol())

		if n.Op == TokenLogicalNegation {
			p.operand(n.Operand, precNot)
		} else {
			p.operand(n.Operand, precNegation)
		}

	case *BinaryExpr:
		prec := binaryPrec[n.Op]

		p.operand(n.Left, prec)
		p.WriteString(" " + n.Op.Symbol() + " ")
		p.operand(n.Right, prec+1)

	case *SetExpr:
		if n.Rec {
			p.WriteString("rec ")
		}

		p.WriteByte('{')
		p.bindings(n.Bindings)

		if n.Bindings.Len() > 0 {
			p.newline()
		}

		p.WriteByte('}')

	case *ListExpr:
		p.WriteByte('[')

		for _, e := range n.Elems {
			p.WriteByte(' ')
			p.operand(e, precSelect)
		}

		p.WriteString(" ]")

	case *LetExpr:
		p.WriteString("let")
		p.bindings(n.Bindings)
		p.newline()
		p.WriteString("in ")
		p.node(n.Body)

	case *WithExpr:
		p.WriteString("with ")
		p.node(n.Scope)
		p.WriteString("; ")
		p.node(n.Body)

	case *IfExpr:
		p.WriteString("if ")
		p.node(n.Cond)
		p.WriteString(" then ")
		p.node(n.Then)
		p.WriteString(" else ")
		p.node(n.Else)

	case *SelectExpr:
		p.operand(n.Target, precSelect)
		p.WriteString("." + n.Field)

	case *ApplyExpr:
		p.operand(n.Func, precApply)
		p.WriteByte(' ')
		p.operand(n.Arg, precSelect)
	}
}

func (p *printer) bindings(bindings *Bindings) {
	p.level++
	defer func() { p.level-- }()

	for name, b := range bindings.All() {
		p.newline()

		if b.Inherited {
			p.WriteString("inherit " + name + ";")

			continue
		}

		p.WriteString(name + " = ")
		p.node(b.Expr)
		p.WriteByte(';')
	}
}

func (p *printer) literal(n *Literal) {
	switch n.Type {
	case TypeStr:
		p.WriteString(quote(n.Text))
	case TypeNixPath:
		p.WriteString("<" + n.Text + ">")
	default:
		p.WriteString(literalText(n))
	}
}
