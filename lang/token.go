package lang

//go:generate go tool stringer --linecomment --type TokenKind,Type --output kind_string.go

import (
	"strconv"
	"strings"
)

// TokenKind tags a lexical unit.
type TokenKind uint8

const (
	TokenInvalid         TokenKind = iota // invalid
	TokenEOF                              // EOF
	TokenIdent                            // Ident
	TokenStr                              // Str
	TokenIndStr                           // IndStr
	TokenPath                             // Path
	TokenNixPath                          // NixPath
	TokenInt                              // Int
	TokenFlo                              // Flo
	TokenTrue                             // true
	TokenFalse                            // false
	TokenNull                             // null
	TokenLet                              // let
	TokenIn                               // in
	TokenInherit                          // inherit
	TokenImport                           // import
	TokenWith                             // with
	TokenMap                              // map
	TokenIf                               // if
	TokenThen                             // then
	TokenElse                             // else
	TokenRec                              // rec
	TokenAdd                              // Add
	TokenSub                              // Sub
	TokenArithNegation                    // ArithNegation
	TokenMult                             // Mult
	TokenDiv                              // Div
	TokenConcat                           // Concat
	TokenUpdate                           // Update
	TokenAssign                           // Assign
	TokenEquals                           // Equals
	TokenNotEquals                        // NotEquals
	TokenLogicalNegation                  // LogicalNegation
	TokenAnd                              // And
	TokenOr                               // Or
	TokenArrow                            // Arrow
	TokenLess                             // Less
	TokenLessOrEquals                     // LessOrEquals
	TokenMore                             // More
	TokenMoreOrEquals                     // MoreOrEquals
	TokenHas                              // Has
	TokenAccess                           // Access
	TokenLParen                           // LParen
	TokenRParen                           // RParen
	TokenLBrace                           // LBrace
	TokenRBrace                           // RBrace
	TokenLBracket                         // LBracket
	TokenRBracket                         // RBracket
	TokenSemicolon                        // Semicolon
	TokenComma                            // Comma
	TokenAt                               // At
	TokenDollar                           // Dollar
)

// keywords maps reserved words to their token kinds.
var keywords = map[string]TokenKind{
	"let":     TokenLet,
	"in":      TokenIn,
	"inherit": TokenInherit,
	"import":  TokenImport,
	"with":    TokenWith,
	"map":     TokenMap,
	"null":    TokenNull,
	"true":    TokenTrue,
	"false":   TokenFalse,
	"if":      TokenIf,
	"then":    TokenThen,
	"else":    TokenElse,
	"rec":     TokenRec,
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return sortedKeys(keywords)
}

var symbols = [...]string{
	TokenAdd:             "+",
	TokenSub:             "-",
	TokenArithNegation:   "-",
	TokenMult:            "*",
	TokenDiv:             "/",
	TokenConcat:          "++",
	TokenUpdate:          "//",
	TokenAssign:          "=",
	TokenEquals:          "==",
	TokenNotEquals:       "!=",
	TokenLogicalNegation: "!",
	TokenAnd:             "&&",
	TokenOr:              "||",
	TokenArrow:           "->",
	TokenLess:            "<",
	TokenLessOrEquals:    "<=",
	TokenMore:            ">",
	TokenMoreOrEquals:    ">=",
	TokenHas:             "?",
	TokenAccess:          ".",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenLBrace:          "{",
	TokenRBrace:          "}",
	TokenLBracket:        "[",
	TokenRBracket:        "]",
	TokenSemicolon:       ";",
	TokenComma:           ",",
	TokenAt:              "@",
	TokenDollar:          "$",
}

// Symbol returns the source spelling of an operator or punctuation kind, or
// the kind's name for everything else.
func (k TokenKind) Symbol() string {
	if int(k) < len(symbols) && symbols[k] != "" {
		return symbols[k]
	}

	return k.String()
}

// Token is one lexical unit. It never owns text: Span locates its lexeme in
// the [Source] it was read from.
type Token struct {
	Span Span
	Int  int64   // TokenInt only
	Flo  float64 // TokenFlo only
	Kind TokenKind
}

// Text returns the payload of t: the contents of a string literal without
// its delimiters, the name inside a bracketed path, or the lexeme otherwise.
func (t Token) Text(src *Source) string {
	s := src.Text(t.Span)

	switch t.Kind {
	case TokenStr:
		return trimDelims(s, 1, 1)
	case TokenIndStr:
		return trimDelims(s, 2, 2)
	case TokenNixPath:
		return trimDelims(s, 1, 1)
	default:
		return s
	}
}

// Format renders t in the compact notation used by the tokens command and in
// tests, such as Ident(xyz), Int(10) or Assign.
func (t Token) Format(src *Source) string {
	switch t.Kind {
	case TokenIdent, TokenStr, TokenIndStr, TokenPath, TokenNixPath:
		return t.Kind.String() + "(" + t.Text(src) + ")"
	case TokenInt:
		return t.Kind.String() + "(" + strconv.FormatInt(t.Int, 10) + ")"
	case TokenFlo:
		return t.Kind.String() + "(" + formatFloat(t.Flo) + ")"
	default:
		return t.Kind.String()
	}
}

// startsTerm reports whether a token of kind k can begin a primary term, and
// therefore an application argument.
func (k TokenKind) startsTerm() bool {
	switch k {
	case TokenIdent, TokenLParen, TokenLBrace, TokenLBracket,
		TokenInt, TokenFlo, TokenPath, TokenNixPath,
		TokenStr, TokenIndStr, TokenNull, TokenTrue, TokenFalse,
		TokenImport, TokenMap, TokenRec:
		return true
	}

	return false
}

func trimDelims(s string, head, tail int) string {
	if len(s) < head+tail {
		return ""
	}

	return s[head : len(s)-tail]
}

// formatFloat renders f in a form the lexer reads back as the same float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}

	return s + ".0"
}
