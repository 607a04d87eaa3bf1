package lang

import (
	"sort"
	"strconv"
	"sync"
)

// Span locates a run of bytes in a [Source].
type Span struct {
	Offset int
	Len    int
}

// End returns the offset one past the last byte of s.
func (s Span) End() int { return s.Offset + s.Len }

// Join returns the smallest span covering both s and t.
func (s Span) Join(t Span) Span {
	start, end := min(s.Offset, t.Offset), max(s.End(), t.End())

	return Span{Offset: start, Len: end - start}
}

// Position represents a location in the source input.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based, in bytes)
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Source owns the text of one input. Tokens, nodes and string values refer
// to it through spans, and the strings returned by [Source.Text] share its
// backing array.
type Source struct {
	name  string
	text  string
	once  sync.Once
	lines []int // offset of the first byte of each line
}

// NewSource wraps text for lexing.
func NewSource(text string) *Source {
	return &Source{text: text}
}

// NewNamedSource wraps text read from the named file.
func NewNamedSource(name, text string) *Source {
	return &Source{name: name, text: text}
}

// Name returns the file name given to [NewNamedSource], or "".
func (s *Source) Name() string { return s.name }

// Len returns the length of the source text in bytes.
func (s *Source) Len() int { return len(s.text) }

// String returns the complete source text.
func (s *Source) String() string { return s.text }

// Text returns the text covered by sp.
func (s *Source) Text(sp Span) string {
	start := min(max(sp.Offset, 0), len(s.text))
	end := min(max(sp.End(), start), len(s.text))

	return s.text[start:end]
}

// Position converts a byte offset into a line and column.
func (s *Source) Position(offset int) Position {
	s.once.Do(func() {
		s.lines = append(s.lines, 0)

		for i := range len(s.text) {
			if s.text[i] == '\n' {
				s.lines = append(s.lines, i+1)
			}
		}
	})

	offset = min(max(offset, 0), len(s.text))
	line := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > offset
	}) - 1

	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - s.lines[line] + 1,
	}
}
