package services

import (
	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// Resolver turns exclusion selectors into the concrete item codes they
// remove. Selectors match a node's code or its exact name. Selectors that
// match nothing are silently ineffective; UnknownSelectors exists so UIs can
// warn about them without the resolver ever rejecting a set.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks the item universe once and returns the codes excluded by
// the set. An item is out when its division, group, class, or the item
// itself is selected.
func (r *Resolver) Resolve(set *domain.ExclusionSet, h *domain.Hierarchy) map[string]struct{} {
	excluded := make(map[string]struct{})
	if set == nil || set.IsEmpty() {
		return excluded
	}

	match := func(level domain.Level, n domain.Node) bool {
		return set.Contains(level, n.Code) || set.Contains(level, n.Name)
	}

	for _, item := range h.Nodes(domain.LevelItem) {
		if match(domain.LevelItem, item) {
			excluded[item.Code] = struct{}{}
			continue
		}
		out := false
		for _, level := range []domain.Level{domain.LevelClass, domain.LevelGroup, domain.LevelDivision} {
			ancestor, ok := h.AncestorAt(item.Code, level)
			if ok && match(level, ancestor) {
				out = true
				break
			}
		}
		if out {
			excluded[item.Code] = struct{}{}
		}
	}

	logger.Debug("Resolved %d selectors to %d excluded items", set.Len(), len(excluded))
	return excluded
}

// Impact reports what the excluded items remove from the full universe.
func (r *Resolver) Impact(excluded map[string]struct{}, h *domain.Hierarchy) domain.Impact {
	impact := domain.Impact{TotalWeight: h.TotalItemWeight()}
	for _, item := range h.Nodes(domain.LevelItem) {
		if _, out := excluded[item.Code]; out {
			impact.ItemsExcluded++
			impact.ExcludedWeight += item.Weight
		} else {
			impact.ItemsRemaining++
			impact.RemainingWeight += item.Weight
		}
	}
	return impact
}

// UnknownSelectors returns the selectors that match no node at their level,
// sorted per level in the SelectorLevels order.
func (r *Resolver) UnknownSelectors(set *domain.ExclusionSet, h *domain.Hierarchy) []string {
	var unknown []string
	if set == nil {
		return unknown
	}
	for _, level := range domain.SelectorLevels {
		for _, selector := range set.Selectors(level) {
			if _, ok := h.Node(level, selector); ok {
				continue
			}
			if _, ok := h.NodeByName(level, selector); ok {
				continue
			}
			unknown = append(unknown, string(level)+":"+selector)
		}
	}
	return unknown
}

// Remaining returns the item codes the exclusions leave in, in hierarchy
// order. The calculator consumes this list.
func (r *Resolver) Remaining(excluded map[string]struct{}, h *domain.Hierarchy) []string {
	var remaining []string
	for _, code := range h.ItemCodes() {
		if _, out := excluded[code]; !out {
			remaining = append(remaining, code)
		}
	}
	return remaining
}
