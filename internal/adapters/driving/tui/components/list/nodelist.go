// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pricelab/cpix-cli/internal/adapters/driving/tui/styles"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
)

// NodeList displays one hierarchy level's nodes in a navigable list with
// exclusion checkboxes.
type NodeList struct {
	nodes    []driving.SelectionNode
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewNodeList creates a new node list component.
func NewNodeList(s *styles.Styles) *NodeList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &NodeList{
		nodes:    nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the node list.
func (l *NodeList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *NodeList) Update(msg tea.Msg) (*NodeList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the node list.
func (l *NodeList) View() string {
	if len(l.nodes) == 0 {
		return l.styles.Muted.Render("No nodes at this level")
	}

	lines := make([]string, 0, len(l.nodes)+2)

	// Calculate visible range based on height, one line per node
	visibleCount := l.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.nodes) {
		end = len(l.nodes)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderNode(i, &l.nodes[i]))
	}

	if len(l.nodes) > visibleCount {
		lines = append(lines, l.styles.Muted.Render(
			fmt.Sprintf("  (%d of %d)", l.selected+1, len(l.nodes))))
	}

	return strings.Join(lines, "\n")
}

// renderNode formats a single node row with its exclusion checkbox.
func (l *NodeList) renderNode(index int, node *driving.SelectionNode) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	box := "[ ]"
	if node.Excluded {
		box = "[x]"
	}

	name := node.Node.Name
	maxNameLen := l.width - 30
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	row := fmt.Sprintf("%s%s %-12s %-*s %8.2f", indicator, box, node.Node.Code, maxNameLen, name, node.Node.Weight)

	switch {
	case index == l.selected:
		return l.styles.Selected.Render(row)
	case node.Excluded:
		return l.styles.Excluded.Render(row)
	default:
		return l.styles.Normal.Render(row)
	}
}

// SetNodes replaces the list contents, preserving the cursor when the new
// slice is long enough.
func (l *NodeList) SetNodes(nodes []driving.SelectionNode) {
	l.nodes = nodes
	if l.selected >= len(nodes) {
		l.selected = 0
	}
}

// Nodes returns the current nodes.
func (l *NodeList) Nodes() []driving.SelectionNode {
	return l.nodes
}

// Selected returns the index of the selected node.
func (l *NodeList) Selected() int {
	return l.selected
}

// SelectedNode returns the currently selected node, or nil if none.
func (l *NodeList) SelectedNode() *driving.SelectionNode {
	if len(l.nodes) == 0 || l.selected < 0 || l.selected >= len(l.nodes) {
		return nil
	}
	return &l.nodes[l.selected]
}

// MarkSelected flips the Excluded flag on the selected node's row. The
// authoritative state lives in the session; this keeps the display in step
// without a reload.
func (l *NodeList) MarkSelected(excluded bool) {
	if node := l.SelectedNode(); node != nil {
		node.Excluded = excluded
	}
}

// MoveUp moves selection up.
func (l *NodeList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *NodeList) MoveDown() {
	if l.selected < len(l.nodes)-1 {
		l.selected++
	}
}

// ResetCursor moves the selection back to the first row.
func (l *NodeList) ResetCursor() {
	l.selected = 0
}

// SetDimensions sets the component dimensions.
func (l *NodeList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *NodeList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *NodeList) Height() int {
	return l.height
}

// Count returns the number of nodes.
func (l *NodeList) Count() int {
	return len(l.nodes)
}

// IsEmpty returns whether the list is empty.
func (l *NodeList) IsEmpty() bool {
	return len(l.nodes) == 0
}
