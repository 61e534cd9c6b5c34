package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// SaveLayout writes a layout (floor descriptor and ordered containers) as JSON.
func SaveLayout(path string, layout model.Layout) error {
	if err := writeJSON(path, layout); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", path, err)
	}
	return nil
}

// LoadLayout reads a layout file. Container order in the file is kept, as it
// is the placement priority order.
func LoadLayout(path string) (model.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}
	layout := model.NewLayout()
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.Layout{}, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	if layout.Containers == nil {
		layout.Containers = []model.ContainerRecord{}
	}
	return layout, nil
}

// SavePlan writes a placement result as JSON, the form a renderer consumes.
func SavePlan(path string, result model.PlanResult) error {
	if err := writeJSON(path, result); err != nil {
		return fmt.Errorf("failed to save plan %s: %w", path, err)
	}
	return nil
}
