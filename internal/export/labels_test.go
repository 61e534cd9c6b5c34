package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlotPlan/internal/model"
)

func TestCollectLabelInfos(t *testing.T) {
	containers := []model.ContainerRecord{{ID: "c2", Label: "Camping gear"}}

	labels := CollectLabelInfos(buildTestResult(), containers)

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}
	if labels[1].Label != "Camping gear" || labels[0].Label != "" {
		t.Errorf("unexpected labels %q / %q", labels[0].Label, labels[1].Label)
	}
	if labels[2].Layer != 1 || labels[2].Floor != 1 || labels[2].Y != 1.74 {
		t.Errorf("unexpected third label %+v", labels[2])
	}
	if labels[3].Source != model.SourceFallback {
		t.Errorf("expected fallback source, got %s", labels[3].Source)
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestResult(), nil, 0); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Error("output does not start with PDF header")
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	result := buildTestResult()
	base := result.Placements[0]
	result.Placements = nil
	for i := 0; i < labelsPerPage+5; i++ {
		p := base
		p.ContainerID = string(rune('a'+i%26)) + string(rune('0'+i/26))
		result.Placements = append(result.Placements, p)
	}

	if err := ExportLabels(filepath.Join(t.TempDir(), "many.pdf"), result, nil, 0); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestExportLabels_NoPlacements(t *testing.T) {
	if err := ExportLabels(filepath.Join(t.TempDir(), "none.pdf"), model.PlanResult{}, nil, 0); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestExportLabels_PartialSheets(t *testing.T) {
	if err := ExportLabels(filepath.Join(t.TempDir(), "partial.pdf"), buildTestResult(), nil, 2); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestSheetCapacity(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, labelsPerPage},
		{-3, labelsPerPage},
		{12, 12},
		{labelsPerPage + 1, labelsPerPage},
	}
	for _, tt := range tests {
		if got := sheetCapacity(tt.in); got != tt.want {
			t.Errorf("sheetCapacity(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
