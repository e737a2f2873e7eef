package mcp

import (
	"context"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	result  *domain.IndexResult
	impact  domain.Impact
	unknown []string
	err     error

	gotName       string
	gotExclusions *domain.ExclusionSet
}

func (m *mockIndexService) Calculate(
	_ context.Context,
	name string,
	exclusions *domain.ExclusionSet,
) (*domain.IndexResult, error) {
	m.gotName = name
	m.gotExclusions = exclusions
	return m.result, m.err
}

func (m *mockIndexService) Preview(
	_ context.Context,
	exclusions *domain.ExclusionSet,
) (domain.Impact, error) {
	m.gotExclusions = exclusions
	return m.impact, m.err
}

func (m *mockIndexService) UnknownSelectors(
	_ context.Context,
	_ *domain.ExclusionSet,
) ([]string, error) {
	return m.unknown, m.err
}

// mockCoreService is a mock implementation of driving.CoreService.
type mockCoreService struct {
	result *domain.CoreExclusionResult
	err    error

	gotInput domain.CoreInput
}

func (m *mockCoreService) CalculateExItems(
	_ context.Context,
	input domain.CoreInput,
) (*domain.CoreExclusionResult, error) {
	m.gotInput = input
	return m.result, m.err
}

// mockHierarchyService is a mock implementation of driving.HierarchyService.
type mockHierarchyService struct {
	hierarchy *domain.Hierarchy
	err       error
}

func (m *mockHierarchyService) Hierarchy(_ context.Context) (*domain.Hierarchy, error) {
	return m.hierarchy, m.err
}

func (m *mockHierarchyService) Reload(_ context.Context) (*domain.Hierarchy, error) {
	return m.hierarchy, m.err
}
