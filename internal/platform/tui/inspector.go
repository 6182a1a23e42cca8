package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/games/t2048/engine"
)

// FrameSource is implemented by games that expose their identity frame.
type FrameSource interface {
	Frame() engine.Frame
}

// InspectorKeyMap defines the key bindings for the identity inspector.
type InspectorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Active key.Binding
	Close  key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k InspectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Active, k.Close, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k InspectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Active},
		{k.Close, k.Quit},
	}
}

// DefaultInspectorKeyMap returns default key bindings.
func DefaultInspectorKeyMap() InspectorKeyMap {
	return InspectorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Active: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "active only"),
		),
		Close: key.NewBinding(
			key.WithKeys("tab", "esc"),
			key.WithHelp("tab/esc", "back to board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// InspectorModel lists the identity pool of the frame being animated.
type InspectorModel struct {
	frame      engine.Frame
	table      table.Model
	help       help.Model
	keys       InspectorKeyMap
	width      int
	height     int
	activeOnly bool
}

// NewInspectorModel creates an inspector sized for the terminal.
func NewInspectorModel(width, height int) InspectorModel {
	h := help.New()
	h.Width = width
	m := InspectorModel{
		help:   h,
		keys:   DefaultInspectorKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

func (m *InspectorModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Active", Width: 7},
		{Title: "Value", Width: 6},
		{Title: "Pal", Width: 4},
		{Title: "Cell", Width: 7},
		{Title: "Role", Width: 12},
		{Title: "Move", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// SetFrame replaces the listed identities, keeping the cursor when the
// frame has not changed.
func (m *InspectorModel) SetFrame(f engine.Frame) {
	same := f.Seq == m.frame.Seq && len(m.table.Rows()) > 0
	m.frame = f
	m.updateRows()
	if !same {
		m.table.GotoTop()
	}
}

func (m *InspectorModel) updateRows() {
	cells := m.frame.Grid.Size()
	cols := m.frame.Grid.Cols()
	rows := make([]table.Row, 0, len(m.frame.Identities))
	for _, id := range m.frame.Identities {
		if m.activeOnly && !id.Active {
			continue
		}
		rows = append(rows, identityRow(id, cells, cols))
	}
	m.table.SetRows(rows)
}

// identityRow formats one identity; positions are shown as row,col.
func identityRow(id engine.Identity, cells, cols int) table.Row {
	active := "-"
	switch {
	case id.Retiring():
		active = "retire"
	case id.Active:
		active = "yes"
	}
	value, palette := "", ""
	if id.Value > 0 {
		value = strconv.Itoa(id.Value)
		palette = strconv.Itoa(id.Palette)
	}
	move := ""
	if id.Meta.From != id.Meta.To {
		move = cellLabel(id.Meta.From, cells, cols) + "->" + cellLabel(id.Meta.To, cells, cols)
	}
	if id.Meta.Merged {
		move += " +"
	}
	return table.Row{
		strconv.Itoa(id.ID),
		active,
		value,
		palette,
		cellLabel(id.Position, cells, cols),
		id.Role.String(),
		move,
	}
}

func cellLabel(p engine.Position, cells, cols int) string {
	if p < 0 || int(p) >= cells || cols == 0 {
		return "off"
	}
	return fmt.Sprintf("%d,%d", int(p)/cols, int(p)%cols)
}

// Init implements tea.Model.
func (m InspectorModel) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and resizing. Closing is left to the caller.
func (m InspectorModel) Update(msg tea.Msg) (InspectorModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Active):
			m.activeOnly = !m.activeOnly
			m.updateRows()
			m.table.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the inspector.
func (m InspectorModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := fmt.Sprintf("IDENTITIES - frame %d", m.frame.Seq)
	if m.frame.Hurry {
		title += " (hurry)"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	active := 0
	for _, id := range m.frame.Identities {
		if id.Active {
			active++
		}
	}
	summary := fmt.Sprintf("%d active of %d", active, len(m.frame.Identities))
	b.WriteString(centerText(summary, m.width))
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.table.View()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}
