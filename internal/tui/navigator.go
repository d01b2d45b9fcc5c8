// Package tui is the interactive table navigator behind "docgrid nav".
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dolphindoc/docgrid/internal/render"
	"github.com/dolphindoc/docgrid/model"
)

// Entry is one table offered by the navigator.
type Entry struct {
	Name  string
	Table *model.Table
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Next  key.Binding
	Prev  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next table")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("⇧tab", "previous table")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model of the navigator. The cursor always points
// at a cell of the current table, or is nil when the table has no cells.
type Model struct {
	entries      []Entry
	current      int
	cursor       *model.Cell
	status       string
	failed       bool
	help         help.Model
	maxCellWidth int
	quitting     bool
}

// New creates a navigator positioned on the first cell of the first table.
func New(entries []Entry, maxCellWidth int) Model {
	m := Model{
		entries:      entries,
		help:         help.New(),
		maxCellWidth: maxCellWidth,
	}
	m.selectTable(0)
	return m
}

// Run starts the navigator on the terminal and blocks until the user quits.
func Run(entries []Entry, maxCellWidth int) error {
	if len(entries) == 0 {
		return errors.New("no tables to navigate")
	}
	p := tea.NewProgram(New(entries, maxCellWidth), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) selectTable(i int) {
	m.current = i
	m.cursor = nil
	m.status, m.failed = "", false
	if i >= len(m.entries) {
		return
	}
	t := m.entries[i].Table
	if cells := t.Cells(); len(cells) > 0 {
		m.cursor = cells[0]
	}
	if !t.ReadyToMove() {
		m.status = fmt.Sprintf("%d unoccupied coordinates; navigation disabled", len(t.Gaps()))
		m.failed = true
	}
}

// Cursor returns the current table and the highlighted cell.
func (m Model) Cursor() (*model.Table, *model.Cell) {
	if m.current >= len(m.entries) {
		return nil, nil
	}
	return m.entries[m.current].Table, m.cursor
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Next):
			if n := len(m.entries); n > 0 {
				m.selectTable((m.current + 1) % n)
			}
		case key.Matches(msg, keys.Prev):
			if n := len(m.entries); n > 0 {
				m.selectTable((m.current + n - 1) % n)
			}
		case key.Matches(msg, keys.Up):
			m.move(model.DirUp)
		case key.Matches(msg, keys.Down):
			m.move(model.DirDown)
		case key.Matches(msg, keys.Left):
			m.move(model.DirLeft)
		case key.Matches(msg, keys.Right):
			m.move(model.DirRight)
		}
	}
	return m, nil
}

func (m *Model) move(d model.Direction) {
	if m.cursor == nil {
		return
	}
	next, err := m.cursor.Move(d)
	switch {
	case err != nil:
		m.status, m.failed = err.Error(), true
	case next == nil:
		m.status, m.failed = fmt.Sprintf("boundary: no cell %s", d), false
	default:
		m.cursor = next
		m.status, m.failed = "", false
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.entries) == 0 {
		return "no tables\n"
	}

	e := m.entries[m.current]
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n",
		titleStyle.Render(fmt.Sprintf("[%d/%d] %s", m.current+1, len(m.entries), e.Name)),
		dimStyle.Render(fmt.Sprintf("%dx%d", e.Table.Rows(), e.Table.Cols())))

	b.WriteString(render.Board(e.Table, render.Options{
		MaxCellWidth: m.maxCellWidth,
		Highlight:    m.cursor,
	}))

	if m.cursor != nil {
		r := m.cursor.Bounds()
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("row %d col %d (%dx%d)", r.Top, r.Left, r.Width, r.Height)),
			render.Label(m.cursor))
	}
	switch {
	case m.status == "":
	case m.failed:
		b.WriteString(errorStyle.Render(m.status) + "\n")
	default:
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}
