package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestLogger_Zero(t *testing.T) {
	var l Logger

	l.Info("discarded")
	l.TraceContext(t.Context(), "discarded")

	if l.With(slog.String("k", "v")).Slog() != nil {
		t.Error("With on the zero Logger produced a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger reports %v/%v", l.Level(), l.Format())
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger is enabled")
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none")).
		With(slog.String("component", "parser"))

	l.Info("parsed", slog.Group("ast", slog.Int("nodes", 3)), slog.Bool("ok", true))

	want := "level=INFO msg=parsed component=parser ast.nodes=3 ok=true\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithTimeLayout(""))

	l.Trace("no")
	l.Debug("no")
	l.Info("no")
	l.Warn("yes")
	l.Error("yes")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"level=WARN msg=yes", "level=ERROR msg=yes"}

	if !slices.Equal(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	buf.Reset()

	Make(&buf, WithLevel(LevelTrace), WithTimeLayout("")).Trace("tok")

	if got := buf.String(); got != "level=TRACE msg=tok\n" {
		t.Errorf("trace output = %q", got)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithTimeLayout("none"))
	l.Info("evaluated", slog.String("file", "default.nix"))

	want := `{"level":"INFO","msg":"evaluated","file":"default.nix"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()

	l.Wrap(WithPretty(true)).Warn("w", slog.Int("n", 1))

	want = "{\n  \"level\": \"WARN\",\n  \"msg\": \"w\",\n  \"n\": 1\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("indented output = %q, want %q", got, want)
	}
}

func TestLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithTimeLayout("RFC3339Nano")).
		Info("stamped")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	ts, ok := rec["time"].(string)
	if !ok || !strings.Contains(ts, "T") {
		t.Errorf("time = %v", rec["time"])
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false), WithTimeLayout("")).Info("here")

	if got := buf.String(); !strings.Contains(got, "log_test.go:") {
		t.Errorf("output %q does not name the calling file", got)
	}

	buf.Reset()

	Make(&buf, WithTimeLayout("")).Info("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("output %q includes the caller when disabled", buf.String())
	}
}

func TestDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithFormat(FormatJSON), WithPretty(false)))
	Config(WithLevel(LevelDebug), WithTimeLayout(""))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{fn: Debug, level: "DEBUG"},
		{fn: Info, level: "INFO"},
		{fn: Warn, level: "WARN"},
		{fn: Error, level: "ERROR"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.fn("m", slog.String("key", "value"))

		want := `{"level":"` + tt.level + `","msg":"m","key":"value"}` + "\n"
		if got := buf.String(); got != want {
			t.Errorf("%s output = %q, want %q", tt.level, got, want)
		}
	}

	buf.Reset()
	With(slog.String("a", "b")).InfoContext(t.Context(), "ctx")

	if got := buf.String(); !strings.Contains(got, `"a":"b"`) {
		t.Errorf("With output = %q", got)
	}
}
