package cmd

import (
	"errors"
	"log/slog"
)

// Error is a command failure. Errors derived from a sentinel by Wrap or With
// match it under [errors.Is], and carry slog attributes naming the source,
// file or output format involved.
type Error struct {
	base  *Error
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel Error with the given message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// Error returns "msg: cause", or whichever of the two is set.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	}

	return e.msg + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && e.base == t.base
}

// LogValue groups the message, the cause and the attributes. A cause that is
// itself a [slog.LogValuer], such as a [lang.Error] with its source position,
// is logged as a nested group rather than flattened to a string.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	var valuer slog.LogValuer

	switch {
	case e.err == nil:
	case errors.As(e.err, &valuer):
		attrs = append(attrs, slog.Any("cause", valuer))
	default:
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)), e.attrs...), attrs...)

	return &c
}

var (
	ErrReadSource  = NewError("read source")
	ErrWriteOutput = NewError("write output")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrNoConfig    = NewError("configuration file path undefined")
	ErrNotSet      = NewError("value is not an attribute set")
	ErrUnbound     = NewError("result depends on unbound names")
)
