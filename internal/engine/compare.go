package engine

import (
	"fmt"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// ComparisonScenario defines a named engine configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.EngineConfig
}

// ComparisonResult holds the plan and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Result      model.PlanResult
	Err         error
	Capacity    int
	SlotPlaced  int
	CrossType   int
	Fallbacks   int
	Overlaps    int
	Utilization float64 // Layer 0 footprint usage in percent
}

// CompareScenarios plans the same layout under each scenario and returns the
// results in scenario order. Scenarios with an invalid configuration carry the
// error and no result.
func CompareScenarios(scenarios []ComparisonScenario, layout model.Layout) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		planner, err := New(scenario.Config)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}
		result, err := planner.Plan(layout)
		counts := result.CountBySource()

		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Result:      result,
			Err:         err,
			Capacity:    result.TotalCapacity(),
			SlotPlaced:  counts[model.SourceSlot],
			CrossType:   counts[model.SourceCrossType],
			Fallbacks:   counts[model.SourceFallback],
			Overlaps:    len(CheckOverlaps(result.Placements)),
			Utilization: result.LayerUtilization()[0],
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around base, varying
// the slot spacing and the per-type grid offsets.
func BuildDefaultScenarios(base model.EngineConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}

	if base.Spacing > 0 {
		noGap := base
		noGap.Spacing = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Spacing",
			Config: noGap,
		})
	}

	wide := base
	wide.Spacing = base.Spacing*2 + 0.01
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Spacing %.3fm", wide.Spacing),
		Config: wide,
	})

	centered := base
	centered.BoxTypes = make([]model.BoxType, len(base.BoxTypes))
	copy(centered.BoxTypes, base.BoxTypes)
	hasOffset := false
	for i := range centered.BoxTypes {
		if centered.BoxTypes[i].Offset != (model.Point2D{}) {
			hasOffset = true
		}
		centered.BoxTypes[i].Offset = model.Point2D{}
	}
	if hasOffset {
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Centered Grids",
			Config: centered,
		})
	}

	return scenarios
}
