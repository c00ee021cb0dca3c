package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/mgomes/loxobj/internal/progfile"
)

var (
	inkColor    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	valueColor  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	faultColor  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	nameColor   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	promptStyle = lipgloss.NewStyle().Foreground(inkColor).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(valueColor)
	errorStyle  = lipgloss.NewStyle().Foreground(faultColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(dimColor)
	titleStyle  = lipgloss.NewStyle().Foreground(inkColor).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(nameColor)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(inkColor).
			PaddingLeft(1)
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func configureColor(mode progfile.ColorMode, out *os.File) {
	switch mode {
	case progfile.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case progfile.ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		if !isTerminal(out) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type inspectorModel struct {
	textInput   textinput.Model
	footer      help.Model
	session     *session
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

// inspectorKeys implements help.KeyMap so the footer lists exactly the
// bindings Update handles.
type inspectorKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Run      key.Binding
	Complete key.Binding
	Quit     key.Binding
}

func (k inspectorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Complete, k.Prev, k.Quit}
}

func (k inspectorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Run, k.Complete}, {k.Prev, k.Next, k.Quit}}
}

var keys = inspectorKeys{
	Prev:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "earlier command")),
	Next:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "later command")),
	Run:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete verb or variable")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "leave")),
}

func newInspectorModel(sess *session) inspectorModel {
	ti := textinput.New()
	ti.Placeholder = "new, call, get, set, super or :help"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "lox> "

	m := inspectorModel{
		textInput:  ti,
		footer:     help.New(),
		session:    sess,
		historyIdx: -1,
	}
	if sess.startup != "" {
		m.history = append(m.history, historyEntry{output: sess.startup})
	}
	return m
}

func (m inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.footer.Width = msg.Width
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Prev):
			return m.recall(-1), nil

		case key.Matches(msg, keys.Next):
			return m.recall(1), nil

		case key.Matches(msg, keys.Complete):
			return m.handleAutocomplete(), nil

		case key.Matches(msg, keys.Run):
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			m.historyIdx = -1
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through earlier commands. Stepping past the newest one
// empties the input again.
func (m inspectorModel) recall(step int) inspectorModel {
	if len(m.cmdHistory) == 0 || (m.historyIdx == -1 && step > 0) {
		return m
	}
	idx := m.historyIdx + step
	if m.historyIdx == -1 {
		idx = len(m.cmdHistory) - 1
	}
	switch {
	case idx < 0:
		idx = 0
	case idx >= len(m.cmdHistory):
		m.historyIdx = -1
		m.textInput.SetValue("")
		return m
	}
	m.historyIdx = idx
	m.textInput.SetValue(m.cmdHistory[idx])
	m.textInput.CursorEnd()
	return m
}

// handleInput keeps panel toggles in the UI and hands everything else to
// the session.
func (m inspectorModel) handleInput(input string) (inspectorModel, tea.Cmd) {
	switch input {
	case ":help", ":h":
		m.showHelp = !m.showHelp
		return m, nil
	case ":vars", ":v":
		m.showVars = !m.showVars
		return m, nil
	case ":clear", ":c":
		m.history = nil
		return m, nil
	}

	output, err := m.session.execute(input)
	if errors.Is(err, errQuit) {
		m.quitting = true
		return m, tea.Quit
	}
	m.cmdHistory = append(m.cmdHistory, input)
	entry := historyEntry{input: input, output: output}
	if err != nil {
		entry.isErr = true
		if output != "" {
			entry.output = output + "\n" + err.Error()
		} else {
			entry.output = err.Error()
		}
	}
	m.history = append(m.history, entry)
	return m, nil
}

func (m inspectorModel) handleAutocomplete() inspectorModel {
	input := m.textInput.Value()
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return m
	}
	lastWord := tokens[len(tokens)-1]

	var completions []string
	if len(tokens) == 1 {
		for _, c := range inspectorCommands {
			verb, _, _ := strings.Cut(c.usage, " ")
			if strings.HasPrefix(verb, lastWord) {
				completions = append(completions, verb)
			}
		}
	} else {
		for _, entry := range m.session.vars() {
			if strings.HasPrefix(entry.name, lastWord) {
				completions = append(completions, entry.name)
			}
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m inspectorModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return mutedStyle.Render("bye\n")
	}

	var panels []string
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.session.vars()))
	}
	if m.showHelp {
		panels = append(panels, renderHelpPanel())
	}
	bottom := strings.Join(append(panels, m.textInput.View(), m.footer.View(keys)), "\n\n")

	var b strings.Builder
	b.WriteString(titleStyle.Render("Lox Inspector") + "  " + mutedStyle.Render(m.session.summary()) + "\n\n")

	// The transcript gets whatever height the panels leave and stays
	// scrolled to its newest entry.
	if rows := m.height - lipgloss.Height(bottom) - 3; rows > 0 {
		transcript := viewport.New(m.width, rows)
		transcript.SetContent(m.renderTranscript())
		transcript.GotoBottom()
		b.WriteString(transcript.View() + "\n")
	}
	b.WriteString(bottom)
	return b.String()
}

func (m inspectorModel) renderTranscript() string {
	var lines []string
	for _, entry := range m.history {
		if entry.input != "" {
			lines = append(lines, promptStyle.Render("» ")+entry.input)
		}
		switch {
		case entry.output == "":
		case entry.isErr:
			lines = append(lines, renderLines(errorStyle, entry.output))
		default:
			lines = append(lines, renderLines(resultStyle, entry.output))
		}
	}
	return strings.Join(lines, "\n")
}

func renderVarsPanel(entries []varEntry) string {
	lines := []string{titleStyle.Render("Globals")}
	if len(entries) == 0 {
		lines = append(lines, mutedStyle.Render("none yet"))
	}
	for _, entry := range entries {
		lines = append(lines, nameStyle.Render(entry.name)+" = "+entry.value.GoString())
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	lines := []string{titleStyle.Render("Commands")}
	for _, c := range inspectorCommands {
		lines = append(lines, nameStyle.Render(fmt.Sprintf("%-32s", c.usage))+mutedStyle.Render(c.desc))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func runInspector(sess *session) error {
	p := tea.NewProgram(newInspectorModel(sess), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// runLineMode serves the same commands over plain lines for pipes and
// scripted use.
func runLineMode(sess *session, in io.Reader, out io.Writer) error {
	if sess.startup != "" {
		fmt.Fprintln(out, renderLines(resultStyle, sess.startup))
	}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		output, err := sess.execute(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if output != "" {
			fmt.Fprintln(out, renderLines(resultStyle, output))
		}
		if err != nil {
			fmt.Fprintln(out, renderLines(errorStyle, "error: "+err.Error()))
		}
	}
	return scanner.Err()
}

// renderLines styles each line on its own so lipgloss does not pad the
// block to a common width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
