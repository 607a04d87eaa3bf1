package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/nixeval/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "load", "edit", "unbind", "clear", "quit"}

// builtinUsage describes the arguments of the builtin functions.
var builtinUsage = map[string]string{
	"map":       "map f list",
	"import":    "import path",
	"toString":  "toString value",
	"length":    "length list",
	"attrNames": "attrNames set",
	"isNull":    "isNull value",
	"head":      "head list",
	"tail":      "tail list",
}

// isWordBoundary reports whether r delimits words for completion. Hyphens
// are not boundaries since identifiers may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '*', '/', '<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '@', '"':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the attribute path selected by the word starting at
// wordStart. For "x + server.http.ho" with the word "ho", the parent path is
// "server.http". Top-level words have no parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// candidates returns the completions of a word selected from parent, or of
// a top-level word when parent is empty.
func (s *Session) candidates(parent string) []string {
	if parent == "" {
		names := s.Names()
		names = append(names, lang.Keywords()...)
		slices.Sort(names)

		return slices.Compact(names)
	}

	v, ok := s.Lookup(parent)
	if !ok {
		return nil
	}

	if set, ok := v.(*lang.Set); ok {
		return set.Keys()
	}

	return nil
}

// signature returns the usage of the function named by the first word of the
// application the cursor is in, or "" when there is none.
func (s *Session) signature(input string, cursor int) string {
	cursor = min(max(cursor, 0), len(input))

	fields := strings.Fields(input[:cursor])
	if len(fields) == 0 {
		return ""
	}

	// The callee is the first word of the last run of juxtaposed words.
	i := len(fields) - 1
	for i > 0 && isName(strings.Trim(fields[i-1], "()[]")) {
		i--
	}

	name := strings.Trim(fields[i], "()[]")

	v, ok := s.Lookup(name)
	if !ok {
		return ""
	}

	switch f := v.(type) {
	case *lang.Func:
		if usage, ok := builtinUsage[f.Name]; ok {
			return usage
		}

		return f.Name + " (" + strconv.Itoa(f.Arity) + " arguments)"
	case *lang.PFunc:
		return name + " (partially applied)"
	}

	return ""
}

// isName reports whether w names a binding, including the builtins whose
// names are reserved words.
func isName(w string) bool {
	_, builtin := builtinUsage[w]

	return builtin || lang.IsIdent(w)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. After a dot, every attribute matches an empty word so that the
// members can be browsed.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" || strings.ContainsRune(input[:wordStart], ' ') {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, ctrlCommands), ctrlCommands, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)
	candidates = m.session.candidates(parent)

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. Matched characters are highlighted, and the candidate
// selected while tabbing uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
