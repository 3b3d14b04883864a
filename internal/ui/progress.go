package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"minilex/internal/driver"
)

// fileState is what the list shows for one file.
type fileState uint8

const (
	stateQueued fileState = iota
	stateLexing
	stateDone
	stateCached
	stateFailed
)

var stateLabels = [...]string{
	stateQueued: "queued",
	stateLexing: "lexing",
	stateDone:   "done",
	stateCached: "cached",
	stateFailed: "error",
}

var stateStyles = [...]lipgloss.Style{
	stateQueued: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	stateLexing: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	stateDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	stateCached: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	stateFailed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

func (s fileState) String() string { return stateLabels[s] }

func (s fileState) final() bool { return s >= stateDone }

func stateOf(ev driver.ProgressEvent) fileState {
	switch ev.Status {
	case driver.ProgressWorking:
		return stateLexing
	case driver.ProgressDone:
		if ev.Cached {
			return stateCached
		}
		return stateDone
	case driver.ProgressFailed:
		return stateFailed
	}
	return stateQueued
}

type fileRow struct {
	path   string
	state  fileState
	tokens int
}

type progressModel struct {
	title    string
	events   <-chan driver.ProgressEvent
	spinner  spinner.Model
	bar      progress.Model
	rows     []fileRow
	byPath   map[string]int
	width    int
	tokens   int
	finished int
	done     bool
}

type eventMsg driver.ProgressEvent
type doneMsg struct{}

// NewProgressModel renders the per-file state of a directory run fed by events.
// The program quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = stateStyles[stateLexing]

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%d/%d files, %d tokens)", m.title, m.finished, len(m.rows), m.tokens)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	for _, row := range m.rows {
		label := stateStyles[row.state].Render(fmt.Sprintf("%8s", row.state))
		fmt.Fprintf(&b, "  %s %s", label, truncate(row.path, nameWidth))
		if row.tokens > 0 {
			fmt.Fprintf(&b, "  %d tok", row.tokens)
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply updates the row of ev.Path; events for unknown paths are ignored.
func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	i, ok := m.byPath[ev.Path]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	wasFinal := row.state.final()
	row.state = stateOf(ev)
	if row.state.final() && !wasFinal {
		m.finished++
		row.tokens = ev.Tokens
		m.tokens += ev.Tokens
	}
	return m.bar.SetPercent(float64(m.finished) / float64(len(m.rows)))
}

// truncate shortens s to at most width cells, marking the cut with "...".
func truncate(s string, width int) string {
	switch {
	case width <= 0:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
