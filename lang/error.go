package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error classes. Every sentinel below belongs to exactly one class, so
// callers can test the phase that failed with errors.Is.
var (
	ErrLexical    = NewError("lexical error")
	ErrSyntax     = NewError("syntax error")
	ErrEvaluation = NewError("evaluation error")
)

// Lexical errors.
var (
	ErrInvalidCharacter   = ErrLexical.sentinel("invalid character")
	ErrUnterminatedString = ErrLexical.sentinel(
		"unexpected EOF, expecting a second, closing double quote",
	)
	ErrUnterminatedIndentedString = ErrLexical.sentinel(
		"unexpected EOF, expecting a second, closing single quote",
	)
	ErrInvalidNumber = ErrLexical.sentinel("invalid number")
)

// Syntax errors.
var (
	ErrUnexpectedToken  = ErrSyntax.sentinel("unexpected token")
	ErrUnexpectedEOF    = ErrSyntax.sentinel("unexpected end of input")
	ErrMaxDepthExceeded = ErrSyntax.sentinel("maximum nesting depth exceeded")
)

// Evaluation errors.
var (
	ErrTypeMismatch      = ErrEvaluation.sentinel("type mismatch")
	ErrUnsupported       = ErrEvaluation.sentinel("unsupported construct")
	ErrUnresolvedDep     = ErrEvaluation.sentinel("unresolved dependency on both operands")
	ErrDivisionByZero    = ErrEvaluation.sentinel("division by zero")
	ErrMissingAttribute  = ErrEvaluation.sentinel("attribute missing")
	ErrNotCallable       = ErrEvaluation.sentinel("value is not a function")
	ErrInfiniteRecursion = ErrEvaluation.sentinel("infinite recursion")
	ErrUndefinedVariable = ErrEvaluation.sentinel("undefined variable")
	ErrDuplicateKey      = ErrEvaluation.sentinel("duplicate key")
	ErrEmptyList         = ErrEvaluation.sentinel("list is empty")
	ErrImport            = ErrEvaluation.sentinel("import failed")
)

// ErrReadInput is returned when the source cannot be read.
var ErrReadInput = NewError("failed to read input")

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	detail string
	err    error       // Wrapped error (for errors.Unwrap)
	base   *Error      // Sentinel this error was derived from
	class  *Error      // Class of the sentinel, if any
	pos    *Position   // Source position, if known
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

func (e *Error) sentinel(msg string) *Error {
	s := NewError(msg)
	s.class = e

	return s
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err}
	e.base = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.detail != "" {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.detail)
	}

	if e.pos != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at ")
		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or the class
// that sentinel belongs to.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.base == t.base || (e.class != nil && e.class == t)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Position returns the source position attached to the error, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Detailf returns a copy of the error with a formatted description appended
// to its message.
func (e *Error) Detailf(format string, args ...any) *Error {
	c := e.clone()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// WithPosition returns a copy of the error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}
