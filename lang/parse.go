package lang

import (
	"context"
	"io"
	"log/slog"
)

// ParseReader parses an AST from an io.Reader.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*AST, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, NewSource(string(data)), opts...)
}

// ParseString parses an AST from a string.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	return Parse(ctx, NewSource(s), opts...)
}

// Parse tokenizes src and parses the tokens as a single expression.
func Parse(ctx context.Context, src *Source, opts ...Option) (*AST, error) {
	ast := &AST{Source: src, maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(ast)
	}

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	ast.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("token_count", len(tokens)))

	p := &parser{src: src, tokens: tokens, maxDepth: ast.maxDepth}

	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.unexpected(tok, "end of input")
	}

	ast.Root = root

	ast.logger.TraceContext(ctx, "parse complete",
		slog.String("root", NodeName(root)))

	return ast, nil
}

// parser holds the parser state.
type parser struct {
	src      *Source
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	return Token{Kind: TokenEOF, Span: Span{Offset: p.src.Len()}}
}

func (p *parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, kind.Symbol())
	}

	return p.advance(), nil
}

func (p *parser) unexpected(tok Token, expected string) error {
	pos := p.src.Position(tok.Span.Offset)

	if tok.Kind == TokenEOF {
		return ErrUnexpectedEOF.
			Detailf("expected %s", expected).
			WithPosition(pos)
	}

	return ErrUnexpectedToken.
		Detailf("expected %s, found %s", expected, tok.Format(p.src)).
		WithPosition(pos).
		With(
			slog.String("expected", expected),
			slog.String("found", tok.Kind.String()),
		)
}

// enter guards recursion depth; every successful call must be paired with
// a deferred leave.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrMaxDepthExceeded.
			Detailf("limit %d", p.maxDepth).
			WithPosition(p.src.Position(p.peek().Span.Offset))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseExpr parses a complete expression, lowest precedence first.
func (p *parser) parseExpr() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Kind {
	case TokenLet:
		return p.parseLet()
	case TokenWith:
		return p.parseWith()
	case TokenIf:
		return p.parseIf()
	}

	return p.parseArrow()
}

// binaryTier parses a left-associative chain of the given operators over
// operands produced by next.
func (p *parser) binaryTier(
	next func() (Node, error),
	ops ...TokenKind,
) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Kind
		if !matches(op, ops) {
			return left, nil
		}

		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Op:    op,
			Left:  left,
			Right: right,
			Loc:   left.Span().Join(right.Span()),
		}
	}
}

func matches(kind TokenKind, set []TokenKind) bool {
	for _, k := range set {
		if kind == k {
			return true
		}
	}

	return false
}

func (p *parser) parseArrow() (Node, error) {
	return p.binaryTier(p.parseOr, TokenArrow)
}

func (p *parser) parseOr() (Node, error) {
	return p.binaryTier(p.parseAnd, TokenOr)
}

func (p *parser) parseAnd() (Node, error) {
	return p.binaryTier(p.parseEquality, TokenAnd)
}

func (p *parser) parseEquality() (Node, error) {
	return p.binaryTier(p.parseRelational, TokenEquals, TokenNotEquals)
}

func (p *parser) parseRelational() (Node, error) {
	return p.binaryTier(p.parseUpdate,
		TokenLess, TokenLessOrEquals, TokenMore, TokenMoreOrEquals)
}

func (p *parser) parseUpdate() (Node, error) {
	return p.binaryTier(p.parseNot, TokenUpdate)
}

func (p *parser) parseNot() (Node, error) {
	return p.prefix(TokenLogicalNegation, p.parseNot, p.parseAdditive)
}

func (p *parser) parseAdditive() (Node, error) {
	return p.binaryTier(p.parseMultiplicative, TokenAdd, TokenSub)
}

func (p *parser) parseMultiplicative() (Node, error) {
	return p.binaryTier(p.parseConcat, TokenMult, TokenDiv)
}

func (p *parser) parseConcat() (Node, error) {
	return p.binaryTier(p.parseHas, TokenConcat)
}

func (p *parser) parseHas() (Node, error) {
	return p.binaryTier(p.parseNegation, TokenHas)
}

func (p *parser) parseNegation() (Node, error) {
	return p.prefix(TokenArithNegation, p.parseNegation, p.parseApplication)
}

// prefix parses an optional prefix operator op. The operand of op is parsed
// with self so that the operator may repeat; without op, next is used.
func (p *parser) prefix(
	op TokenKind,
	self, next func() (Node, error),
) (Node, error) {
	tok := p.peek()
	if tok.Kind != op {
		return next()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()

	operand, err := self()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{
		Op:      op,
		Operand: operand,
		Loc:     tok.Span.Join(operand.Span()),
	}, nil
}

// parseApplication folds juxtaposed operands into left-nested Apply nodes.
// Only identifiers, with, let, select and apply nodes can be applied, and
// only when the next token can start a term.
func (p *parser) parseApplication() (Node, error) {
	fn, err := p.parseSelection()
	if err != nil {
		return nil, err
	}

	for applicable(fn) && p.peek().Kind.startsTerm() {
		arg, err := p.parseSelection()
		if err != nil {
			return nil, err
		}

		fn = &ApplyExpr{Func: fn, Arg: arg, Loc: fn.Span().Join(arg.Span())}
	}

	return fn, nil
}

func applicable(n Node) bool {
	switch n.(type) {
	case *Ident, *WithExpr, *LetExpr, *SelectExpr, *ApplyExpr:
		return true
	}

	return false
}

func (p *parser) parseSelection() (Node, error) {
	target, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == TokenAccess {
		p.advance()

		field, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		target = &SelectExpr{
			Target: target,
			Field:  p.src.Text(field.Span),
			Loc:    target.Span().Join(field.Span),
		}
	}

	return target, nil
}

func (p *parser) parseTerm() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()

	switch tok.Kind {
	case TokenIdent, TokenImport, TokenMap:
		p.advance()

		return &Ident{Name: p.src.Text(tok.Span), Loc: tok.Span}, nil

	case TokenStr, TokenIndStr:
		p.advance()

		return &Literal{Type: TypeStr, Text: tok.Text(p.src), Loc: tok.Span}, nil

	case TokenPath:
		p.advance()

		return &Literal{Type: TypePath, Text: tok.Text(p.src), Loc: tok.Span}, nil

	case TokenNixPath:
		p.advance()

		return &Literal{Type: TypeNixPath, Text: tok.Text(p.src), Loc: tok.Span}, nil

	case TokenInt:
		p.advance()

		return &Literal{Type: TypeInt, Int: tok.Int, Loc: tok.Span}, nil

	case TokenFlo:
		p.advance()

		return &Literal{Type: TypeFlo, Flo: tok.Flo, Loc: tok.Span}, nil

	case TokenTrue, TokenFalse:
		p.advance()

		return &Literal{Type: TypeBool, Bool: tok.Kind == TokenTrue, Loc: tok.Span}, nil

	case TokenNull:
		p.advance()

		return &Literal{Type: TypeNull, Loc: tok.Span}, nil

	case TokenLParen:
		p.advance()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return inner, nil

	case TokenLBracket:
		return p.parseList()

	case TokenLBrace:
		return p.parseSet(false)

	case TokenRec:
		p.advance()

		if p.peek().Kind != TokenLBrace {
			return nil, p.unexpected(p.peek(), "{")
		}

		return p.parseSet(true)

	case TokenLet:
		return p.parseLet()

	case TokenWith:
		return p.parseWith()

	case TokenIf:
		return p.parseIf()
	}

	return nil, p.unexpected(tok, "expression")
}

func (p *parser) parseList() (Node, error) {
	open := p.advance()
	list := &ListExpr{}

	for {
		tok := p.peek()

		switch tok.Kind {
		case TokenRBracket:
			p.advance()
			list.Loc = open.Span.Join(tok.Span)

			return list, nil

		case TokenEOF:
			return nil, p.unexpected(tok, "]")
		}

		elem, err := p.parseSelection()
		if err != nil {
			return nil, err
		}

		list.Elems = append(list.Elems, elem)
	}
}

func (p *parser) parseSet(rec bool) (Node, error) {
	open := p.advance()

	bindings, err := p.parseBindings(TokenRBrace)
	if err != nil {
		return nil, err
	}

	closing := p.advance()

	return &SetExpr{
		Bindings: bindings,
		Rec:      rec,
		Loc:      open.Span.Join(closing.Span),
	}, nil
}

// parseBindings parses "name = expr;" and "inherit a b;" bindings up to, but
// not including, a token of kind end.
func (p *parser) parseBindings(end TokenKind) (*Bindings, error) {
	bindings := NewAttrs[*Binding]()

	for {
		tok := p.peek()

		switch tok.Kind {
		case end:
			return bindings, nil

		case TokenInherit:
			p.advance()

			for p.peek().Kind == TokenIdent {
				name := p.advance()
				ident := &Ident{Name: p.src.Text(name.Span), Loc: name.Span}
				bindings.Set(ident.Name, &Binding{
					Name:      ident.Name,
					Expr:      ident,
					Loc:       name.Span,
					Inherited: true,
				})
			}

			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

			continue

		case TokenIdent:

		default:
			return nil, p.unexpected(tok, end.Symbol()+" or binding")
		}

		name := p.advance()

		if _, err := p.expect(TokenAssign); err != nil {
			return nil, err
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		semi, err := p.expect(TokenSemicolon)
		if err != nil {
			return nil, err
		}

		key := p.src.Text(name.Span)
		bindings.Set(key, &Binding{
			Name: key,
			Expr: expr,
			Loc:  name.Span.Join(semi.Span),
		})
	}
}

func (p *parser) parseLet() (Node, error) {
	start := p.advance()

	bindings, err := p.parseBindings(TokenIn)
	if err != nil {
		return nil, err
	}

	p.advance()

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &LetExpr{
		Bindings: bindings,
		Body:     body,
		Loc:      start.Span.Join(body.Span()),
	}, nil
}

func (p *parser) parseWith() (Node, error) {
	start := p.advance()

	scope, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &WithExpr{
		Scope: scope,
		Body:  body,
		Loc:   start.Span.Join(body.Span()),
	}, nil
}

func (p *parser) parseIf() (Node, error) {
	start := p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenThen); err != nil {
		return nil, err
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenElse); err != nil {
		return nil, err
	}

	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &IfExpr{
		Cond: cond,
		Then: then,
		Else: els,
		Loc:  start.Span.Join(els.Span()),
	}, nil
}
