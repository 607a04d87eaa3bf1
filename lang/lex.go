package lang

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer converts source text into tokens one at a time. Disambiguation of
// multi-character operators uses at most one byte of lookahead, plus a
// bounded scan for the closing '>' of a bracketed path.
type Lexer struct {
	src  *Source
	text string
	pos  int
	prev TokenKind
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src *Source) *Lexer {
	return &Lexer{src: src, text: src.String(), prev: TokenInvalid}
}

// Tokenize returns every token in src, excluding the trailing EOF token.
func Tokenize(src *Source) ([]Token, error) {
	tokens := make([]Token, 0, src.Len()/4+1)

	for tok, err := range NewLexer(src).All() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

// All returns an iterator over the remaining tokens, excluding EOF. Iteration
// stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if tok.Kind == TokenEOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token. At end of input it returns a token of kind
// [TokenEOF], and keeps doing so on every later call.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()

	if l.pos >= len(l.text) {
		return Token{Kind: TokenEOF, Span: Span{Offset: len(l.text)}}, nil
	}

	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}

	l.prev = tok.Kind

	return tok, nil
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.text) {
		switch c := l.text[l.pos]; {
		case isSpace(c):
			l.pos++

		case c == '#':
			end := strings.IndexByte(l.text[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.text)
			} else {
				l.pos += end + 1
			}

		default:
			return
		}
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.text) {
		return l.text[l.pos+n]
	}

	return 0
}

func (l *Lexer) emit(kind TokenKind, start int) (Token, error) {
	return Token{Kind: kind, Span: Span{Offset: start, Len: l.pos - start}}, nil
}

// single consumes n bytes and emits a token of the given kind.
func (l *Lexer) single(kind TokenKind, n int) (Token, error) {
	start := l.pos
	l.pos += n

	return l.emit(kind, start)
}

// pick consumes a two-byte operator when the next byte is next, and a
// one-byte operator otherwise.
func (l *Lexer) pick(next byte, two, one TokenKind) (Token, error) {
	if l.peek(1) == next {
		return l.single(two, 2)
	}

	return l.single(one, 1)
}

func (l *Lexer) scan() (Token, error) {
	c := l.text[l.pos]

	switch {
	case isIdentStart(c):
		return l.scanIdent()

	case isDigit(c):
		return l.scanNumber()
	}

	switch c {
	case '"':
		return l.scanString()

	case '\'':
		return l.scanIndentedString()

	case '.':
		switch {
		case l.peek(1) == '/':
			return l.scanPath()
		case l.peek(1) == '.' && l.peek(2) == '/':
			return l.scanPath()
		}

		return l.single(TokenAccess, 1)

	case '~':
		if l.peek(1) == '/' {
			return l.scanPath()
		}

		return Token{}, l.invalid()

	case '/':
		switch next := l.peek(1); {
		case next == 0 || isSpace(next):
			return l.single(TokenDiv, 1)
		case next == '/':
			return l.single(TokenUpdate, 2)
		}

		return l.scanPath()

	case '<':
		if end, ok := l.scanBracketed(); ok {
			start := l.pos
			l.pos = end

			return l.emit(TokenNixPath, start)
		}

		return l.pick('=', TokenLessOrEquals, TokenLess)

	case '>':
		return l.pick('=', TokenMoreOrEquals, TokenMore)

	case '+':
		return l.pick('+', TokenConcat, TokenAdd)

	case '-':
		if l.peek(1) == '>' {
			return l.single(TokenArrow, 2)
		}

		if l.prev.endsOperand() {
			return l.single(TokenSub, 1)
		}

		return l.single(TokenArithNegation, 1)

	case '=':
		return l.pick('=', TokenEquals, TokenAssign)

	case '!':
		return l.pick('=', TokenNotEquals, TokenLogicalNegation)

	case '&':
		if l.peek(1) == '&' {
			return l.single(TokenAnd, 2)
		}

	case '|':
		if l.peek(1) == '|' {
			return l.single(TokenOr, 2)
		}

	case '*':
		return l.single(TokenMult, 1)
	case '?':
		return l.single(TokenHas, 1)
	case '(':
		return l.single(TokenLParen, 1)
	case ')':
		return l.single(TokenRParen, 1)
	case '{':
		return l.single(TokenLBrace, 1)
	case '}':
		return l.single(TokenRBrace, 1)
	case '[':
		return l.single(TokenLBracket, 1)
	case ']':
		return l.single(TokenRBracket, 1)
	case ';':
		return l.single(TokenSemicolon, 1)
	case ',':
		return l.single(TokenComma, 1)
	case '@':
		return l.single(TokenAt, 1)
	case '$':
		return l.single(TokenDollar, 1)
	}

	return Token{}, l.invalid()
}

func (l *Lexer) invalid() error {
	r, _ := utf8.DecodeRuneInString(l.text[l.pos:])

	return ErrInvalidCharacter.
		Detailf("%q", r).
		WithPosition(l.src.Position(l.pos))
}

func (l *Lexer) scanIdent() (Token, error) {
	start := l.pos

	for l.pos < len(l.text) && isIdentPart(l.text[l.pos]) {
		l.pos++
	}

	if kind, ok := keywords[l.text[start:l.pos]]; ok {
		return l.emit(kind, start)
	}

	return l.emit(TokenIdent, start)
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos

	for l.pos < len(l.text) && (isDigit(l.text[l.pos]) || l.text[l.pos] == '.') {
		l.pos++
	}

	lexeme := l.text[start:l.pos]
	span := Span{Offset: start, Len: l.pos - start}

	if !strings.Contains(lexeme, ".") {
		if i, err := strconv.ParseInt(lexeme, 10, 32); err == nil {
			return Token{Kind: TokenInt, Span: span, Int: i}, nil
		}
	}

	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Token{}, ErrInvalidNumber.
			Detailf("%q", lexeme).
			WithPosition(l.src.Position(start))
	}

	return Token{Kind: TokenFlo, Span: span, Flo: f}, nil
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos

	end := strings.IndexByte(l.text[start+1:], '"')
	if end < 0 {
		return Token{}, ErrUnterminatedString.WithPosition(l.src.Position(start))
	}

	l.pos = start + 1 + end + 1

	return l.emit(TokenStr, start)
}

func (l *Lexer) scanIndentedString() (Token, error) {
	start := l.pos

	if l.peek(1) != '\'' {
		return Token{}, l.invalid()
	}

	end := strings.Index(l.text[start+2:], "''")
	if end < 0 {
		return Token{}, ErrUnterminatedIndentedString.
			WithPosition(l.src.Position(start))
	}

	l.pos = start + 2 + end + 2

	return l.emit(TokenIndStr, start)
}

// scanPath consumes a path literal up to the next whitespace, semicolon or
// closing bracket.
func (l *Lexer) scanPath() (Token, error) {
	start := l.pos

	for l.pos < len(l.text) && !endsPath(l.text[l.pos]) {
		l.pos++
	}

	return l.emit(TokenPath, start)
}

// scanBracketed looks ahead, without consuming, for the '>' closing a
// bracketed path. The scan gives up at whitespace or a semicolon.
func (l *Lexer) scanBracketed() (end int, ok bool) {
	for i := l.pos + 1; i < len(l.text); i++ {
		switch c := l.text[i]; {
		case c == '>':
			return i + 1, i > l.pos+1
		case c == ';' || isSpace(c):
			return 0, false
		}
	}

	return 0, false
}

// endsOperand reports whether a '-' following a token of kind k is binary
// subtraction rather than arithmetic negation. Only names and numbers end an
// operand; a '-' after ')' or a literal of any other kind negates.
func (k TokenKind) endsOperand() bool {
	switch k {
	case TokenIdent, TokenInt, TokenFlo:
		return true
	}

	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentPart(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}

func endsPath(c byte) bool {
	switch c {
	case ';', ')', ']', '}':
		return true
	}

	return isSpace(c)
}
