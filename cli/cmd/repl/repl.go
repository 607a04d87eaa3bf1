package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

const (
	evalPrompt = "nix-repl> "
	ctrlPrompt = "       :> "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help           Print this cruft
  list           List the names bound in this session
  load <file>    Evaluate a file and bind the attributes of its set
  edit [file]    Edit the pending input, or a file then load it, in $EDITOR
  unbind <name>  Remove a name bound in this session
  clear          Clear screen
  quit           Exit REPL

Usage:
  Type an expression to evaluate it
  Type name = expr to bind a name for later expressions
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// editDoneMsg is sent when an edit is accepted. Path is set when a file was
// edited.
type editDoneMsg struct{ text, path string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Options configures [Run].
type Options struct {
	// Importer returns the importer for files loaded with the load command.
	Importer func(name string) lang.Importer
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	session      *Session
	importer     func(name string) lang.Importer
	history      *History
	logger       log.Logger
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	input        textinput.Model
	preTabText   string // input text before tab-cycling began
	evalText     string
	ctrlText     string
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	evalCursor   int
	ctrlCursor   int
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Run starts the interactive REPL on the terminal.
func Run(ctx context.Context, session *Session, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if opts.CacheDir != "" {
		path = filepath.Join(opts.CacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		opts.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	opts.Logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entries", history.Len()),
	)

	m := newModel(ctx, session, history, opts)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// RunLines evaluates each line read from r, writing results and errors to w.
// It serves input that is not a terminal.
func RunLines(ctx context.Context, session *Session, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res, err := session.Eval(ctx, line)
		if err != nil {
			fmt.Fprintln(w, "error: "+err.Error())

			continue
		}

		fmt.Fprintln(w, res)
	}

	return scanner.Err()
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	opts Options,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    session,
		importer:   opts.Importer,
		input:      ti,
		logger:     opts.Logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		return m.finishEdit(msg)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.mode == modeEval:
		b.WriteString(hintStyle.Render(m.session.signature(input, m.input.Position())))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1, false)

	case tea.KeyDown:
		return m.historyStep(1, false)

	case tea.KeyShiftUp:
		return m.historyStep(-1, true)

	case tea.KeyShiftDown:
		return m.historyStep(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeEval)

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key edits or moves without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the candidates.
func (m model) cycle(step int) (model, tea.Cmd) {
	n := len(m.matches)
	if n == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step < 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input. With
// autoConfirm, a sole candidate equal to the typed word is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// A command leaves the parked eval input for edit to pick up.
	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0
	} else {
		m.evalText, m.evalCursor = "", 0
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "could not save history",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	res, err := m.session.Eval(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(res.String())))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))
	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	fail := func(err error) (model, tea.Cmd) {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "load":
		if len(args) != 1 {
			return fail(fmt.Errorf("%w: load <file>", ErrUsage))
		}

		names, err := m.load(args[0])
		if err != nil {
			return fail(err)
		}

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(
			fmt.Sprintf("Added %d variables: %s", len(names), strings.Join(names, " ")))))

	case "edit":
		if len(args) > 1 {
			return fail(fmt.Errorf("%w: edit [file]", ErrUsage))
		}

		c := &editCommand{ctxFunc: m.ctxFunc, logger: m.logger, text: m.evalText}

		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fail(err)
			}

			c.text, c.path = string(data), args[0]
		}

		return m, tea.Sequence(echo, m.edit(c))

	case "unbind":
		if len(args) == 0 {
			return fail(fmt.Errorf("%w: unbind <name>...", ErrUsage))
		}

		for _, name := range args {
			m.session.Unbind(name)
		}

		return m, echo

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// edit runs c in the user's editor, suspending the program meanwhile.
func (m model) edit(c *editCommand) tea.Cmd {
	return tea.Exec(c, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case c.result == "":
			return editCancelledMsg{}
		}

		return editDoneMsg{text: c.result, path: c.path}
	})
}

// finishEdit applies an accepted edit. An edited file is loaded into the
// session; an edited line returns to the eval prompt, ready to run.
func (m model) finishEdit(msg editDoneMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
		slog.String("path", msg.path),
		slog.Int("content_length", len(msg.text)),
	)

	if msg.path != "" {
		names, err := m.load(msg.path)
		if err != nil {
			return m, tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("Added %d variables: %s", len(names), strings.Join(names, " "))))
	}

	line := compactLine(m.ctxFunc(), msg.text)

	m.evalText, m.evalCursor = line, len(line)
	if m.mode == modeEval {
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
		refreshMatches(&m, false)

		return m, nil
	}

	return m.switchToMode(modeEval)
}

// load evaluates the file at path into the session.
func (m model) load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var opts []lang.EvalOption

	if m.importer != nil {
		if imp := m.importer(path); imp != nil {
			opts = append(opts, lang.WithImporter(imp))
		}
	}

	return m.session.Load(m.ctxFunc(), lang.NewNamedSource(path, string(data)), opts...)
}

func (m model) listBindings() string {
	var b strings.Builder

	for _, name := range m.session.Bound() {
		v, ok := m.session.Lookup(name)
		if !ok {
			continue
		}

		preview := lang.FormatValue(v)
		if len(preview) > 40 {
			preview = preview[:37] + "..."
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview))
	}

	return b.String()
}

// historyStep moves through history by dir, switching to the mode of the
// recalled entry. With inMode, only entries of the current mode are visited.
func (m model) historyStep(dir int, inMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.At(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	// Stepping past the newest entry returns to an empty line.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode switches to mode, preserving the input of each mode.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
