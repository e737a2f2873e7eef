package domain

import (
	"sort"
	"strings"
)

// WeightTolerance is the absolute tolerance applied to every weight
// conservation check: parent vs sum of children, and division total vs 100.
const WeightTolerance = 0.01

// Node is one entry in the weight hierarchy. Codes are dot-delimited and
// unique within their level; joins between tiers use codes only, never names.
type Node struct {
	// Code is the dot-delimited identifier, unique within the level.
	Code string

	// Name is the human-readable label. Names are display-only and play
	// no part in joins.
	Name string

	// Weight is the node's share of all-items expenditure. Non-negative.
	Weight float64

	// Level is the tier this node belongs to.
	Level Level

	// ParentCode is the code of the node one tier up. Empty for divisions.
	ParentCode string
}

// WeightRow is one record of a raw weight table before hierarchy assembly.
type WeightRow struct {
	// Code is the node's own code.
	Code string

	// Name is the node's display name.
	Name string

	// ParentCode joins the row to the tier above. Empty for divisions.
	ParentCode string

	// Weight is the raw weight value.
	Weight float64
}

// WeightTable is one tier's worth of raw weight rows, as produced by a
// weight source. Order follows the source.
type WeightTable struct {
	// Level is the tier the rows belong to.
	Level Level

	// Rows holds the records in source order.
	Rows []WeightRow
}

// WeightTables carries the per-tier tables handed to the hierarchy builder.
// Subclasses may be nil; the other tiers are required.
type WeightTables struct {
	Divisions  *WeightTable
	Groups     *WeightTable
	Classes    *WeightTable
	Subclasses *WeightTable
	Items      *WeightTable
}

// Hierarchy is the assembled weight tree. It is immutable after
// construction: lookups return copies or read-only views, and nothing
// mutates the maps once the builder hands the value out.
type Hierarchy struct {
	nodes    map[Level]map[string]Node
	children map[string][]string
	itemsOf  map[string][]string
	order    map[Level][]string
}

// NewHierarchy assembles a Hierarchy from validated nodes. The builder in
// the services package is the only intended caller; it performs the schema
// and integrity checks before construction. childrenOf maps a node code to
// its direct child codes, itemsOf maps every non-item code to the item codes
// beneath it.
func NewHierarchy(nodes []Node, childrenOf map[string][]string, itemsOf map[string][]string) *Hierarchy {
	h := &Hierarchy{
		nodes:    make(map[Level]map[string]Node),
		children: make(map[string][]string, len(childrenOf)),
		itemsOf:  make(map[string][]string, len(itemsOf)),
		order:    make(map[Level][]string),
	}
	for _, lvl := range Levels {
		h.nodes[lvl] = make(map[string]Node)
	}
	for _, n := range nodes {
		h.nodes[n.Level][n.Code] = n
		h.order[n.Level] = append(h.order[n.Level], n.Code)
	}
	for code, kids := range childrenOf {
		h.children[code] = append([]string(nil), kids...)
	}
	for code, items := range itemsOf {
		h.itemsOf[code] = append([]string(nil), items...)
	}
	return h
}

// Node returns the node with the given code at the given level.
func (h *Hierarchy) Node(level Level, code string) (Node, bool) {
	n, ok := h.nodes[level][code]
	return n, ok
}

// NodeByName returns the first node at the given level whose name matches
// exactly. Names are not guaranteed unique; code lookups are authoritative.
func (h *Hierarchy) NodeByName(level Level, name string) (Node, bool) {
	for _, code := range h.order[level] {
		n := h.nodes[level][code]
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// Nodes returns the nodes of a level in source order.
func (h *Hierarchy) Nodes(level Level) []Node {
	out := make([]Node, 0, len(h.order[level]))
	for _, code := range h.order[level] {
		out = append(out, h.nodes[level][code])
	}
	return out
}

// Len returns the number of nodes at a level.
func (h *Hierarchy) Len(level Level) int {
	return len(h.nodes[level])
}

// Children returns the direct child codes of a node.
func (h *Hierarchy) Children(code string) []string {
	return append([]string(nil), h.children[code]...)
}

// ItemsUnder returns the item codes beneath any non-item node. For an item
// code it returns the code itself.
func (h *Hierarchy) ItemsUnder(code string) []string {
	if _, ok := h.nodes[LevelItem][code]; ok {
		return []string{code}
	}
	return append([]string(nil), h.itemsOf[code]...)
}

// ItemCodes returns every item code in source order.
func (h *Hierarchy) ItemCodes() []string {
	return append([]string(nil), h.order[LevelItem]...)
}

// ItemWeight returns the weight of an item, or 0 if the code is unknown.
func (h *Hierarchy) ItemWeight(code string) float64 {
	return h.nodes[LevelItem][code].Weight
}

// TotalItemWeight returns the sum of all item weights.
func (h *Hierarchy) TotalItemWeight() float64 {
	var total float64
	for _, code := range h.order[LevelItem] {
		total += h.nodes[LevelItem][code].Weight
	}
	return total
}

// AncestorAt walks up from an item to its ancestor at the given level.
// Resolution follows parent codes tier by tier; when the subclass tier is
// absent the item's parent code is matched against classes directly.
func (h *Hierarchy) AncestorAt(itemCode string, level Level) (Node, bool) {
	item, ok := h.nodes[LevelItem][itemCode]
	if !ok {
		return Node{}, false
	}
	if level == LevelItem {
		return item, true
	}
	cur := item
	for cur.ParentCode != "" {
		parent, ok := h.parentOf(cur)
		if !ok {
			return Node{}, false
		}
		if parent.Level == level {
			return parent, true
		}
		cur = parent
	}
	return Node{}, false
}

func (h *Hierarchy) parentOf(n Node) (Node, bool) {
	var above []Level
	switch n.Level {
	case LevelItem:
		above = []Level{LevelSubclass, LevelClass}
	case LevelSubclass:
		above = []Level{LevelClass}
	case LevelClass:
		above = []Level{LevelGroup}
	case LevelGroup:
		above = []Level{LevelDivision}
	default:
		return Node{}, false
	}
	for _, lvl := range above {
		if p, ok := h.nodes[lvl][n.ParentCode]; ok {
			return p, true
		}
	}
	return Node{}, false
}

// LongestCodePrefix returns the code in candidates that is the longest
// dot-prefix of code, or "" when none matches. Used to resolve items to
// classes when the subclass tier is absent.
func LongestCodePrefix(code string, candidates []string) string {
	best := ""
	for _, c := range candidates {
		if c == code || strings.HasPrefix(code, c+".") {
			if len(c) > len(best) {
				best = c
			}
		}
	}
	return best
}

// SortedCodes returns a sorted copy of the keys of a code set.
func SortedCodes(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
