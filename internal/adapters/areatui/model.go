// Package areatui implements a read-only bubbletea tree browser over the
// area catalog, for operators who want to inspect the hierarchy without
// reaching for the CLI or MCP tools.
package areatui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"areacatalog/internal/adapters/areatui/styles"
	"areacatalog/internal/domain"
	"areacatalog/internal/editor"
)

// node is one row of the flattened, navigable tree. Children are loaded
// lazily from the engine the first time a node is expanded, mirroring
// how a disk-backed browser would page in a subtree on demand even
// though the area catalog itself lives in memory.
type node struct {
	area           domain.Area
	parent         *node
	children       []*node
	childrenLoaded bool
	expanded       bool
	depth          int
}

// KeyMap defines the browser's key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the bubbletea model for the area browser.
type Model struct {
	eng *editor.Engine

	roots     []*node
	flatNodes []*node
	cursor    int
	width     int
	height    int

	message    string
	messageErr bool
}

// New builds a browser model against eng. Call Init to trigger the
// initial load.
func New(eng *editor.Engine) *Model {
	return &Model{eng: eng}
}

func (m *Model) Init() tea.Cmd {
	return m.loadRoots
}

type rootsLoadedMsg struct{ roots []domain.Area }
type childrenLoadedMsg struct{ n *node }
type errMsg struct{ err error }

func (m *Model) loadRoots() tea.Msg {
	roots := m.eng.GetRoots()
	return rootsLoadedMsg{roots: roots}
}

func (m *Model) loadChildren(n *node) tea.Cmd {
	return func() tea.Msg {
		children := m.eng.GetChildren(n.area.ID)
		sortAreas(children)
		n.children = make([]*node, 0, len(children))
		for _, child := range children {
			n.children = append(n.children, &node{area: child, parent: n, depth: n.depth + 1})
		}
		n.childrenLoaded = true
		return childrenLoadedMsg{n: n}
	}
}

func sortAreas(areas []domain.Area) {
	sort.Slice(areas, func(i, j int) bool {
		return areas[i].DisplayName < areas[j].DisplayName
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case rootsLoadedMsg:
		sortAreas(msg.roots)
		m.roots = make([]*node, 0, len(msg.roots))
		for _, a := range msg.roots {
			m.roots = append(m.roots, &node{area: a, depth: 0})
		}
		m.refreshFlatNodes()
		return m, nil

	case childrenLoadedMsg:
		msg.n.expanded = true
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.message = msg.err.Error()
		m.messageErr = true
		return m, nil

	case tea.KeyMsg:
		m.message = ""

		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, Keys.Down):
			if m.cursor < len(m.flatNodes)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, Keys.Left):
			if n := m.selected(); n != nil {
				if n.expanded {
					n.expanded = false
					m.refreshFlatNodes()
				} else if n.parent != nil {
					for i, candidate := range m.flatNodes {
						if candidate == n.parent {
							m.cursor = i
							break
						}
					}
				}
			}
			return m, nil

		case key.Matches(msg, Keys.Right):
			if n := m.selected(); n != nil && !n.expanded {
				if n.childrenLoaded {
					n.expanded = true
					m.refreshFlatNodes()
					return m, nil
				}
				return m, m.loadChildren(n)
			}
			return m, nil

		case key.Matches(msg, Keys.Enter):
			if n := m.selected(); n != nil {
				if n.expanded {
					n.expanded = false
					m.refreshFlatNodes()
				} else if n.childrenLoaded {
					n.expanded = true
					m.refreshFlatNodes()
				} else {
					return m, m.loadChildren(n)
				}
			}
			return m, nil

		case key.Matches(msg, Keys.Reload):
			m.roots = nil
			m.flatNodes = nil
			m.cursor = 0
			return m, m.loadRoots
		}
	}

	return m, nil
}

func (m *Model) selected() *node {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

func (m *Model) refreshFlatNodes() {
	m.flatNodes = m.flatNodes[:0]
	for _, r := range m.roots {
		m.flatNodes = append(m.flatNodes, flatten(r)...)
	}
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func flatten(n *node) []*node {
	out := []*node{n}
	if n.expanded {
		for _, c := range n.children {
			out = append(out, flatten(c)...)
		}
	}
	return out
}

func (m *Model) View() string {
	if m.roots == nil {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Area Catalog"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("read-only tree browser"))
	b.WriteString("\n\n")

	for i, n := range m.flatNodes {
		b.WriteString(m.renderNode(n, i == m.cursor))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.messageErr {
			b.WriteString(styles.ErrorMsg.Render(m.message))
		} else {
			b.WriteString(styles.Success.Render(m.message))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *Model) renderNode(n *node, selected bool) string {
	indent := strings.Repeat("  ", n.depth)

	var prefix string
	switch {
	case n.area.Implicit:
		prefix = styles.TreeLeaf
	case n.expanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	name := n.area.DisplayName
	if n.area.Implicit {
		name = fmt.Sprintf("(implicit %s)", n.area.LevelKey)
	}
	text := fmt.Sprintf("%s  [%s]  %s", n.area.ID, n.area.LevelKey, name)

	style := styles.NodeReal
	if n.area.Implicit {
		style = styles.NodeImplicit
	}
	styledText := style.Render(text)
	if selected {
		styledText = styles.NodeSelected.Render(text)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *Model) renderHelpLine() string {
	keys := []struct{ key, desc string }{
		{"j/k", "navigate"},
		{"h/l", "collapse/expand"},
		{"r", "reload"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", styles.HelpKey.Render(k.key), styles.HelpDesc.Render(k.desc)))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}
