package services

import (
	"context"
	"fmt"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/core/ports/driving"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// Ensure HierarchyService implements the interface.
var _ driving.HierarchyService = (*HierarchyService)(nil)

// HierarchyService builds and caches the weight hierarchy. The service is
// owned by a single caller at a time; nothing here locks.
type HierarchyService struct {
	weights   driven.WeightSource
	hierarchy *domain.Hierarchy
}

// NewHierarchyService creates a hierarchy service over a weight source.
func NewHierarchyService(weights driven.WeightSource) *HierarchyService {
	return &HierarchyService{weights: weights}
}

// Hierarchy returns the cached hierarchy, building it on first use.
func (s *HierarchyService) Hierarchy(ctx context.Context) (*domain.Hierarchy, error) {
	if s.hierarchy != nil {
		return s.hierarchy, nil
	}
	return s.Reload(ctx)
}

// Reload rebuilds the hierarchy from the weight source.
func (s *HierarchyService) Reload(ctx context.Context) (*domain.Hierarchy, error) {
	tables, err := s.weights.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading weight tables: %w", err)
	}

	h, err := BuildHierarchy(tables)
	if err != nil {
		return nil, err
	}

	s.hierarchy = h
	logger.Info("Hierarchy built: %d divisions, %d groups, %d classes, %d items",
		h.Len(domain.LevelDivision), h.Len(domain.LevelGroup),
		h.Len(domain.LevelClass), h.Len(domain.LevelItem))
	return h, nil
}

// BuildHierarchy assembles and validates the weight tree from raw tables.
// Joins are strictly by code. Every integrity violation is collected before
// the build fails, so a bad weight reference file is reported once, in full.
func BuildHierarchy(tables domain.WeightTables) (*domain.Hierarchy, error) {
	logger.Section("Hierarchy Build")

	var missing []string
	if tables.Divisions == nil {
		missing = append(missing, "divisions table not loaded")
	}
	if tables.Groups == nil {
		missing = append(missing, "groups table not loaded")
	}
	if tables.Classes == nil {
		missing = append(missing, "classes table not loaded")
	}
	if tables.Items == nil {
		missing = append(missing, "items table not loaded")
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Problems: missing}
	}

	b := &hierarchyBuilder{
		nodes:    make(map[domain.Level]map[string]domain.Node),
		children: make(map[string][]string),
		itemsOf:  make(map[string][]string),
	}
	for _, lvl := range domain.Levels {
		b.nodes[lvl] = make(map[string]domain.Node)
	}

	b.addTier(tables.Divisions, domain.LevelDivision, "")
	b.addTier(tables.Groups, domain.LevelGroup, domain.LevelDivision)
	b.addTier(tables.Classes, domain.LevelClass, domain.LevelGroup)

	hasSubclasses := tables.Subclasses != nil && len(tables.Subclasses.Rows) > 0
	if hasSubclasses {
		b.addTier(tables.Subclasses, domain.LevelSubclass, domain.LevelClass)
		b.addTier(tables.Items, domain.LevelItem, domain.LevelSubclass)
	} else {
		logger.Debug("No subclass tier, resolving items to classes by code prefix")
		b.addItemsByPrefix(tables.Items)
	}

	b.checkParentSums(hasSubclasses)
	b.checkDivisionTotal()
	b.linkItems()

	if len(b.problems) > 0 {
		return nil, &domain.IntegrityError{Problems: b.problems}
	}
	return domain.NewHierarchy(b.ordered, b.children, b.itemsOf), nil
}

// hierarchyBuilder accumulates nodes and integrity problems during a build.
type hierarchyBuilder struct {
	nodes    map[domain.Level]map[string]domain.Node
	ordered  []domain.Node
	children map[string][]string
	itemsOf  map[string][]string
	problems []string
}

func (b *hierarchyBuilder) addTier(table *domain.WeightTable, level domain.Level, parentLevel domain.Level) {
	for _, row := range table.Rows {
		node := domain.Node{
			Code:       row.Code,
			Name:       row.Name,
			Weight:     row.Weight,
			Level:      level,
			ParentCode: row.ParentCode,
		}
		if !b.admit(node) {
			continue
		}

		if parentLevel == "" {
			continue
		}
		parent, ok := b.nodes[parentLevel][row.ParentCode]
		if !ok {
			b.problems = append(b.problems,
				fmt.Sprintf("%s %s references unknown %s %q", level, row.Code, parentLevel, row.ParentCode))
			continue
		}
		if node.Weight > parent.Weight+domain.WeightTolerance {
			b.problems = append(b.problems,
				fmt.Sprintf("%s %s weight %.2f exceeds %s %s weight %.2f",
					level, node.Code, node.Weight, parentLevel, parent.Code, parent.Weight))
		}
		b.children[parent.Code] = append(b.children[parent.Code], node.Code)
	}
}

// addItemsByPrefix attaches items straight to classes. The item's parent
// code is matched against class codes by longest dot-prefix, covering
// reference sets that publish no subclass tier.
func (b *hierarchyBuilder) addItemsByPrefix(table *domain.WeightTable) {
	classCodes := make([]string, 0, len(b.nodes[domain.LevelClass]))
	for code := range b.nodes[domain.LevelClass] {
		classCodes = append(classCodes, code)
	}

	for _, row := range table.Rows {
		parentRef := row.ParentCode
		if parentRef == "" {
			parentRef = row.Code
		}
		classCode := domain.LongestCodePrefix(parentRef, classCodes)
		node := domain.Node{
			Code:       row.Code,
			Name:       row.Name,
			Weight:     row.Weight,
			Level:      domain.LevelItem,
			ParentCode: classCode,
		}
		if classCode == "" {
			node.ParentCode = row.ParentCode
			if b.admit(node) {
				b.problems = append(b.problems,
					fmt.Sprintf("item %s parent %q matches no class code prefix", row.Code, parentRef))
			}
			continue
		}
		if !b.admit(node) {
			continue
		}
		parent := b.nodes[domain.LevelClass][classCode]
		if node.Weight > parent.Weight+domain.WeightTolerance {
			b.problems = append(b.problems,
				fmt.Sprintf("item %s weight %.2f exceeds class %s weight %.2f",
					node.Code, node.Weight, parent.Code, parent.Weight))
		}
		b.children[classCode] = append(b.children[classCode], node.Code)
	}
}

// admit records a node unless its code or weight is unusable.
func (b *hierarchyBuilder) admit(node domain.Node) bool {
	if node.Code == "" {
		b.problems = append(b.problems, fmt.Sprintf("%s row %q has an empty code", node.Level, node.Name))
		return false
	}
	if _, dup := b.nodes[node.Level][node.Code]; dup {
		b.problems = append(b.problems, fmt.Sprintf("duplicate %s code %s", node.Level, node.Code))
		return false
	}
	if node.Weight < 0 {
		b.problems = append(b.problems,
			fmt.Sprintf("%s %s has negative weight %.2f", node.Level, node.Code, node.Weight))
		return false
	}
	b.nodes[node.Level][node.Code] = node
	b.ordered = append(b.ordered, node)
	return true
}

// checkParentSums verifies that every parent weighs the sum of its children.
func (b *hierarchyBuilder) checkParentSums(hasSubclasses bool) {
	isParent := map[domain.Level]bool{
		domain.LevelDivision: true,
		domain.LevelGroup:    true,
		domain.LevelClass:    true,
		domain.LevelSubclass: hasSubclasses,
	}

	// Walk in insertion order so problems are reported deterministically.
	for _, parent := range b.ordered {
		if !isParent[parent.Level] {
			continue
		}
		kids := b.children[parent.Code]
		if len(kids) == 0 {
			// Childless intermediate nodes carry their weight alone.
			continue
		}
		var sum float64
		for _, kid := range kids {
			sum += b.weightOf(kid)
		}
		if diff := sum - parent.Weight; diff > domain.WeightTolerance || diff < -domain.WeightTolerance {
			b.problems = append(b.problems,
				fmt.Sprintf("%s %s weight %.2f differs from children sum %.2f",
					parent.Level, parent.Code, parent.Weight, sum))
		}
	}
}

func (b *hierarchyBuilder) weightOf(code string) float64 {
	for _, lvl := range domain.Levels {
		if n, ok := b.nodes[lvl][code]; ok {
			return n.Weight
		}
	}
	return 0
}

// checkDivisionTotal verifies the all-items invariant: divisions sum to 100.
func (b *hierarchyBuilder) checkDivisionTotal() {
	var total float64
	for _, n := range b.ordered {
		if n.Level == domain.LevelDivision {
			total += n.Weight
		}
	}
	if diff := total - 100; diff > domain.WeightTolerance || diff < -domain.WeightTolerance {
		b.problems = append(b.problems,
			fmt.Sprintf("division weights sum to %.2f, expected 100.00", total))
	}
}

// linkItems fills the transitive item index for every non-item node.
func (b *hierarchyBuilder) linkItems() {
	for _, n := range b.ordered {
		if n.Level != domain.LevelItem {
			continue
		}
		for code := n.ParentCode; code != ""; {
			b.itemsOf[code] = append(b.itemsOf[code], n.Code)
			var parent string
			for _, lvl := range []domain.Level{domain.LevelSubclass, domain.LevelClass, domain.LevelGroup, domain.LevelDivision} {
				if p, ok := b.nodes[lvl][code]; ok {
					parent = p.ParentCode
					break
				}
			}
			code = parent
		}
	}
}
