package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/ardnew/nixeval/lang"
)

func TestError_Derived(t *testing.T) {
	err := ErrWriteOutput.Wrap(fs.ErrPermission).With(slog.String("file", "a.nix"))

	if !errors.Is(err, ErrWriteOutput) || errors.Is(err, ErrReadSource) {
		t.Errorf("errors.Is does not follow the sentinel of %v", err)
	}

	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("cause of %v is lost", err)
	}

	if got, want := err.Error(), "write output: "+fs.ErrPermission.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if len(ErrWriteOutput.attrs) != 0 || ErrWriteOutput.err != nil {
		t.Error("deriving an error modified the sentinel")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{err: ErrNoConfig, want: "configuration file path undefined"},
		{err: NewError("").Wrap(errors.New("cause")), want: "cause"},
		{err: NewError(""), want: ""},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_LogValue(t *testing.T) {
	attrs := func(v slog.Value) map[string]slog.Value {
		m := make(map[string]slog.Value)
		for _, a := range v.Resolve().Group() {
			m[a.Key] = a.Value.Resolve()
		}

		return m
	}

	plain := attrs(ErrReadSource.Wrap(fs.ErrNotExist).With(slog.String("source", "x")).LogValue())
	if plain["cause"].Kind() != slog.KindString || plain["source"].String() != "x" {
		t.Errorf("LogValue() = %v", plain)
	}

	nested := attrs(ErrReadSource.Wrap(lang.WrapError(lang.ErrDivisionByZero)).LogValue())
	if nested["cause"].Kind() != slog.KindGroup {
		t.Errorf("cause of a structured error is %v, want a group", nested["cause"].Kind())
	}
}
