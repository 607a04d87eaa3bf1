package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// maxHistory bounds the number of entries kept in memory and on disk.
	maxHistory = 1000
)

// Entry is one line of history and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// Mode prefixes of history file lines.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

func (e Entry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line
	}

	return evalPrefix + e.Line
}

// decodeEntry parses one history file line. Lines without a mode prefix
// are expressions.
func decodeEntry(line string) Entry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return Entry{Line: s, Mode: modeCtrl}
	}

	return Entry{Line: strings.TrimPrefix(line, evalPrefix), Mode: modeEval}
}

// History is the list of lines entered at the prompt, oldest first, backed
// by a file. An entry appears at most once per mode; entering it again moves
// it to the end.
type History struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewHistory returns an empty History persisted at path. An empty path keeps
// the history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those in the history file. A missing file
// yields an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decodeEntry(line))
		}
	}

	h.entries = trimHistory(h.entries)

	return scanner.Err()
}

// Add appends line in mode, removing an earlier copy of it.
func (h *History) Add(line string, mode inputMode) error {
	e := Entry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	n := len(h.entries)
	h.entries = slices.DeleteFunc(h.entries, func(o Entry) bool { return o == e })
	rewrite := len(h.entries) != n

	h.entries = append(h.entries, e)

	if len(h.entries) > maxHistory {
		h.entries = trimHistory(h.entries)
		rewrite = true
	}

	if h.path == "" {
		return nil
	}

	if rewrite {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.encode() + "\n")

	return err
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewrite replaces the history file with the current entries. h.mu must be
// held.
func (h *History) rewrite() error {
	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(e.encode() + "\n")
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}

func trimHistory(entries []Entry) []Entry {
	if len(entries) <= maxHistory {
		return entries
	}

	return slices.Clone(entries[len(entries)-maxHistory:])
}
