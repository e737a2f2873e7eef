package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pricelab/cpix-cli/internal/core/domain"
)

// ExclusionInput names the selectors to leave out, grouped by hierarchy
// level. Selectors may be codes or exact names; ones that match nothing
// are ignored by the calculation.
type ExclusionInput struct {
	Divisions []string `json:"divisions,omitempty" jsonschema:"division codes or names to exclude"`
	Groups    []string `json:"groups,omitempty" jsonschema:"group codes or names to exclude"`
	Classes   []string `json:"classes,omitempty" jsonschema:"class codes or names to exclude"`
	Items     []string `json:"items,omitempty" jsonschema:"item codes or names to exclude"`
}

// toSet converts the listed selectors into an exclusion set. Listing a
// selector twice means excluded once, not toggled back in.
func (e ExclusionInput) toSet() *domain.ExclusionSet {
	set := domain.NewExclusionSet()
	add := func(level domain.Level, selectors []string) {
		for _, sel := range selectors {
			if sel == "" || set.Contains(level, sel) {
				continue
			}
			set.Toggle(level, sel) //nolint:errcheck
		}
	}
	add(domain.LevelDivision, e.Divisions)
	add(domain.LevelGroup, e.Groups)
	add(domain.LevelClass, e.Classes)
	add(domain.LevelItem, e.Items)
	return set
}

// CalculateInput is the input schema for the calculate_index tool.
type CalculateInput struct {
	Name       string         `json:"name,omitempty" jsonschema:"name for the index (a timestamped default is used when empty)"`
	Exclusions ExclusionInput `json:"exclusions,omitempty" jsonschema:"selectors to leave out of the basket"`
}

// CalculateOutput is the output schema for the calculate_index tool.
type CalculateOutput struct {
	Name           string         `json:"name"`
	ItemsCount     int            `json:"items_count"`
	ExcludedCount  int            `json:"excluded_count"`
	TotalWeight    float64        `json:"total_weight"`
	ExcludedWeight float64        `json:"excluded_weight"`
	Series         []SeriesOutput `json:"series"`
}

// SeriesOutput is one index stream in a calculation result.
type SeriesOutput struct {
	State  string        `json:"state"`
	Sector string        `json:"sector"`
	Points []PointOutput `json:"points"`
}

// PointOutput is one period of an index stream. MoM and YoY are omitted
// for periods where no prior value exists.
type PointOutput struct {
	Period string   `json:"period"`
	Index  float64  `json:"index"`
	MoM    *float64 `json:"mom,omitempty"`
	YoY    *float64 `json:"yoy,omitempty"`
}

// PreviewInput is the input schema for the preview_exclusions tool.
type PreviewInput struct {
	Exclusions ExclusionInput `json:"exclusions" jsonschema:"selectors to resolve against the hierarchy"`
}

// PreviewOutput is the output schema for the preview_exclusions tool.
type PreviewOutput struct {
	ItemsExcluded    int      `json:"items_excluded"`
	ItemsRemaining   int      `json:"items_remaining"`
	ExcludedWeight   float64  `json:"excluded_weight"`
	RemainingWeight  float64  `json:"remaining_weight"`
	TotalWeight      float64  `json:"total_weight"`
	UnknownSelectors []string `json:"unknown_selectors,omitempty"`
}

// CoreComponentInput is one aggregate to remove in a core_exclusion call.
type CoreComponentInput struct {
	Name      string  `json:"name" jsonschema:"label for the component"`
	OldIndex  float64 `json:"old_index" jsonschema:"component index in the earlier period"`
	OldWeight float64 `json:"old_weight" jsonschema:"component weight in the earlier period"`
	NewIndex  float64 `json:"new_index" jsonschema:"component index in the later period"`
	NewWeight float64 `json:"new_weight" jsonschema:"component weight in the later period"`
}

// CoreExclusionInput is the input schema for the core_exclusion tool.
type CoreExclusionInput struct {
	Scenario          string               `json:"scenario,omitempty" jsonschema:"label for the calculation"`
	HeadlineOldIndex  float64              `json:"headline_old_index" jsonschema:"published headline index in the earlier period"`
	HeadlineOldWeight float64              `json:"headline_old_weight" jsonschema:"headline weight in the earlier period"`
	HeadlineNewIndex  float64              `json:"headline_new_index" jsonschema:"published headline index in the later period"`
	HeadlineNewWeight float64              `json:"headline_new_weight" jsonschema:"headline weight in the later period"`
	Components        []CoreComponentInput `json:"components" jsonschema:"aggregates to remove from the headline"`
}

// CoreComponentOutput echoes one excluded component with its own rate.
type CoreComponentOutput struct {
	Name      string  `json:"name"`
	Inflation float64 `json:"inflation"`
}

// CoreExclusionOutput is the output schema for the core_exclusion tool.
type CoreExclusionOutput struct {
	Scenario          string                `json:"scenario"`
	ExOld             float64               `json:"ex_old"`
	ExNew             float64               `json:"ex_new"`
	ExcludedWeightOld float64               `json:"excluded_weight_old"`
	ExcludedWeightNew float64               `json:"excluded_weight_new"`
	HeadlineInflation float64               `json:"headline_inflation"`
	ExInflation       float64               `json:"ex_inflation"`
	Difference        float64               `json:"difference"`
	Components        []CoreComponentOutput `json:"components"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "calculate_index",
		Description: "Calculate a custom price index over the items the exclusions leave in",
	}, s.handleCalculateIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_exclusions",
		Description: "Report the weight impact of exclusions without calculating an index",
	}, s.handlePreviewExclusions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "core_exclusion",
		Description: "Derive an ex-items index algebraically from published aggregates",
	}, s.handleCoreExclusion)
}

// handleCalculateIndex handles the calculate_index tool invocation.
func (s *Server) handleCalculateIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CalculateInput,
) (*mcp.CallToolResult, CalculateOutput, error) {
	result, err := s.ports.Index.Calculate(ctx, input.Name, input.Exclusions.toSet())
	if err != nil {
		return nil, CalculateOutput{}, err
	}

	output := CalculateOutput{
		Name:           result.Name,
		ItemsCount:     result.ItemsCount,
		ExcludedCount:  result.ExcludedCount,
		TotalWeight:    result.TotalWeight,
		ExcludedWeight: result.ExcludedWeight,
		Series:         make([]SeriesOutput, len(result.Series)),
	}

	for i := range result.Series {
		series := &result.Series[i]
		out := SeriesOutput{
			State:  series.Group.State,
			Sector: series.Group.Sector,
			Points: make([]PointOutput, len(series.Points)),
		}
		for j := range series.Points {
			p := series.Points[j]
			point := PointOutput{
				Period: p.Period.String(),
				Index:  p.Index,
			}
			if p.HasMoM {
				mom := p.MoM
				point.MoM = &mom
			}
			if p.HasYoY {
				yoy := p.YoY
				point.YoY = &yoy
			}
			out.Points[j] = point
		}
		output.Series[i] = out
	}

	return nil, output, nil
}

// handlePreviewExclusions handles the preview_exclusions tool invocation.
func (s *Server) handlePreviewExclusions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	set := input.Exclusions.toSet()

	impact, err := s.ports.Index.Preview(ctx, set)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	unknown, err := s.ports.Index.UnknownSelectors(ctx, set)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	return nil, PreviewOutput{
		ItemsExcluded:    impact.ItemsExcluded,
		ItemsRemaining:   impact.ItemsRemaining,
		ExcludedWeight:   impact.ExcludedWeight,
		RemainingWeight:  impact.RemainingWeight,
		TotalWeight:      impact.TotalWeight,
		UnknownSelectors: unknown,
	}, nil
}

// handleCoreExclusion handles the core_exclusion tool invocation.
func (s *Server) handleCoreExclusion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CoreExclusionInput,
) (*mcp.CallToolResult, CoreExclusionOutput, error) {
	if s.ports.Core == nil {
		return nil, CoreExclusionOutput{}, errors.New("core calculator is not configured")
	}

	coreInput := domain.CoreInput{
		ScenarioName: input.Scenario,
		HeadlineOld:  domain.AggregatePoint{Index: input.HeadlineOldIndex, Weight: input.HeadlineOldWeight},
		HeadlineNew:  domain.AggregatePoint{Index: input.HeadlineNewIndex, Weight: input.HeadlineNewWeight},
		Components:   make([]domain.CoreComponent, len(input.Components)),
	}
	for i, c := range input.Components {
		coreInput.Components[i] = domain.CoreComponent{
			Name: c.Name,
			Old:  domain.AggregatePoint{Index: c.OldIndex, Weight: c.OldWeight},
			New:  domain.AggregatePoint{Index: c.NewIndex, Weight: c.NewWeight},
		}
	}

	result, err := s.ports.Core.CalculateExItems(ctx, coreInput)
	if err != nil {
		return nil, CoreExclusionOutput{}, err
	}

	output := CoreExclusionOutput{
		Scenario:          result.ScenarioName,
		ExOld:             result.ExOld,
		ExNew:             result.ExNew,
		ExcludedWeightOld: result.ExcludedWeightOld,
		ExcludedWeightNew: result.ExcludedWeightNew,
		HeadlineInflation: result.HeadlineInflation,
		ExInflation:       result.ExInflation,
		Difference:        result.Difference,
		Components:        make([]CoreComponentOutput, len(result.Components)),
	}
	for i := range result.Components {
		output.Components[i] = CoreComponentOutput{
			Name:      result.Components[i].Name,
			Inflation: result.Components[i].Inflation,
		}
	}

	return nil, output, nil
}
