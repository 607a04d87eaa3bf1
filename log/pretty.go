package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styles colors the parts of a pretty text record. Colors are only emitted
// when the output is a terminal that supports them.
type styles struct {
	key, text, number, yes, no, when lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &styles{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		when:   fg("4"),
		trace:  fg("5"),
		debug:  fg("4"),
		info:   fg("2"),
		warn:   fg("3").Bold(true),
		err:    fg("1").Bold(true),
	}
}

func (s *styles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.err
	case l >= slog.LevelWarn:
		return s.warn
	case l >= slog.LevelInfo:
		return s.info
	case l >= slog.LevelDebug:
		return s.debug
	default:
		return s.trace
	}
}

// prettyHandler writes records as space-separated key=value pairs without
// quoting, styled by [styles].
type prettyHandler struct {
	opts   slog.HandlerOptions
	styles *styles
	mu     *sync.Mutex
	w      io.Writer
	attrs  []byte // preformatted attributes added by WithAttrs
	prefix string // group path of later attributes, dot-terminated
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		styles: newStyles(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.builtin(&buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.level(&buf, r.Level)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.builtin(&buf, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	h.builtin(&buf, slog.String(slog.MessageKey, r.Message))

	if len(h.attrs) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.attr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	buf := bytes.NewBuffer(bytes.Clone(h.attrs))

	for _, a := range attrs {
		h.attr(buf, h.prefix, a)
	}

	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// builtin writes one of the standard record fields after ReplaceAttr.
func (h *prettyHandler) builtin(buf *bytes.Buffer, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return
	}

	h.attr(buf, "", a)
}

func (h *prettyHandler) level(buf *bytes.Buffer, l slog.Level) {
	a := slog.Any(slog.LevelKey, l)
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return
	}

	name := a.Value.String()
	if v, ok := a.Value.Any().(slog.Level); ok {
		name = levelName(v)
	}

	h.sep(buf)
	buf.WriteString(h.styles.key.Render(a.Key) + "=")
	buf.WriteString(h.styles.level(l).Render(name))
}

func (h *prettyHandler) attr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range group {
			h.attr(buf, prefix, ga)
		}

		return
	}

	h.sep(buf)
	buf.WriteString(h.styles.key.Render(prefix+a.Key) + "=")
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) sep(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyHandler) value(v slog.Value) string {
	s := h.styles

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return s.number.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return s.yes.Render("true")
		}

		return s.no.Render("false")
	case slog.KindTime:
		return s.when.Render(v.Time().Format(time.RFC3339))
	default:
		return s.text.Render(v.String())
	}
}

// indentHandler writes each record as indented JSON.
type indentHandler struct {
	slog.Handler

	buf *bytes.Buffer
	mu  *sync.Mutex
	w   io.Writer
}

func newIndentHandler(w io.Writer, opts *slog.HandlerOptions) *indentHandler {
	buf := &bytes.Buffer{}

	return &indentHandler{
		Handler: slog.NewJSONHandler(buf, opts),
		buf:     buf,
		mu:      &sync.Mutex{},
		w:       w,
	}
}

func (h *indentHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}

func (h *indentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &indentHandler{Handler: h.Handler.WithAttrs(attrs), buf: h.buf, mu: h.mu, w: h.w}
}

func (h *indentHandler) WithGroup(name string) slog.Handler {
	return &indentHandler{Handler: h.Handler.WithGroup(name), buf: h.buf, mu: h.mu, w: h.w}
}
