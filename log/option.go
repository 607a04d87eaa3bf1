package log

import "io"

// Option modifies the configuration of a [Logger].
type Option func(*config)

// WithOutput sets the destination of log records. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level of logged records.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout.
//
// The layout may name one of the [time] package layouts, case and punctuation
// ignored (for example "RFC3339Nano" or "kitchen"); any other layout is passed
// to [time.Time.Format] verbatim. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.layout = layout }
}

// WithCaller controls whether records include the source location of the
// logging call.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty controls whether records are styled for a terminal. Pretty text
// colors keys and values; pretty JSON is indented.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}
