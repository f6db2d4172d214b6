package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/polyxml/codec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateBrowse browserState = iota
	stateFilter
)

// row is one visible line of the tree.
type row struct {
	node  *docNode
	depth int
}

type browserModel struct {
	root     *docNode
	expanded map[*docNode]bool
	filter   textinput.Model
	title    string
	rows     []row
	selected int
	height   int
	state    browserState
}

func newBrowserModel(title string, root *docNode) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "element, type or value"
	ti.Prompt = "/"
	ti.Width = 40

	m := &browserModel{
		root:     root,
		expanded: map[*docNode]bool{root: true},
		filter:   ti,
		title:    title,
		height:   20,
	}
	m.refresh()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 3)
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.filter.Blur()
				m.state = stateBrowse
				return m, nil
			case "esc":
				m.filter.Blur()
				m.filter.SetValue("")
				m.state = stateBrowse
				m.refresh()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter", " ":
			if n := m.current(); n != nil && len(n.children) > 0 {
				m.expanded[n] = !m.expanded[n]
				m.refresh()
			}

		case "right", "l":
			if n := m.current(); n != nil && len(n.children) > 0 {
				m.expanded[n] = true
				m.refresh()
			}

		case "left", "h":
			if n := m.current(); n != nil {
				m.expanded[n] = false
				m.refresh()
			}

		case "e":
			m.expandAll(m.root)
			m.refresh()

		case "/":
			m.state = stateFilter
			return m, m.filter.Focus()
		}
	}
	return m, nil
}

func (m *browserModel) current() *docNode {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected].node
}

func (m *browserModel) expandAll(n *docNode) {
	if len(n.children) == 0 {
		return
	}
	m.expanded[n] = true
	for _, c := range n.children {
		m.expandAll(c)
	}
}

// refresh rebuilds the visible rows. With a filter set, every match is shown
// along with its ancestors regardless of what is collapsed.
func (m *browserModel) refresh() {
	m.rows = m.rows[:0]
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		m.collect(m.root, 0)
	} else {
		m.collectMatches(m.root, 0, query)
	}
	if m.selected >= len(m.rows) {
		m.selected = max(len(m.rows)-1, 0)
	}
}

func (m *browserModel) collect(n *docNode, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if !m.expanded[n] {
		return
	}
	for _, c := range n.children {
		m.collect(c, depth+1)
	}
}

func (m *browserModel) collectMatches(n *docNode, depth int, query string) bool {
	mark := len(m.rows)
	m.rows = append(m.rows, row{node: n, depth: depth})
	found := strings.Contains(strings.ToLower(n.summary()), query)
	for _, c := range n.children {
		if m.collectMatches(c, depth+1, query) {
			found = true
		}
	}
	if !found {
		m.rows = m.rows[:mark]
	}
	return found
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("polyxml"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	start := 0
	if m.selected >= m.height {
		start = m.selected - m.height + 1
	}
	end := min(start+m.height, len(m.rows))

	for i := start; i < end; i++ {
		r := m.rows[i]
		marker := "  "
		if len(r.node.children) > 0 {
			marker = "+ "
			if m.expanded[r.node] {
				marker = "- "
			}
		}
		line := strings.Repeat("  ", r.depth) + marker + m.formatNode(r.node, i == m.selected)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(errorStyle.Render("no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if n := m.current(); n != nil {
		b.WriteString(helpStyle.Render(fmt.Sprintf("line %d • %d elements below", n.line, n.count()-1)))
		b.WriteString("\n")
	}
	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc clear"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ move • enter toggle • e expand all • / filter • q quit"))
	}
	return b.String()
}

func (m *browserModel) formatNode(n *docNode, selected bool) string {
	if selected {
		return n.summary()
	}
	var b strings.Builder
	b.WriteString(funcStyle.Render(n.name))
	if n.hint != "" {
		hint := n.hint
		if n.pointer {
			hint = "*" + hint
		}
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(hint))
	}
	if n.null {
		b.WriteString(" ")
		b.WriteString(helpStyle.Render("nil"))
	}
	for _, a := range n.attrs {
		b.WriteString(" ")
		b.WriteString(a)
	}
	if n.text != "" {
		b.WriteString(" = ")
		b.WriteString(resultStyle.Render(n.text))
	}
	return b.String()
}

func runInteractive(title string, data []byte) error {
	root, err := codec.Parse(data)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newBrowserModel(title, buildTree(root)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
