package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/engine"
)

func newCompareCmd(root *rootOpts) *cobra.Command {
	opts := &layoutOpts{}

	cmd := &cobra.Command{
		Use:   "compare [layout.json]",
		Short: "Plan a layout under what-if spacing and offset variants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			app, err := root.loadAppConfig()
			if err != nil {
				return err
			}
			cfg, err := root.engineConfig(app)
			if err != nil {
				return err
			}
			layout, err := opts.load(cmd, args, logger)
			if err != nil {
				return err
			}
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(cfg), layout)
			printComparison(cmd.OutOrStdout(), results)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil && r.Result.Placements == nil {
			rows = append(rows, []string{r.Scenario.Name, "error", "", "", "", "", r.Err.Error()})
			continue
		}
		rows = append(rows, []string{
			r.Scenario.Name,
			strconv.Itoa(r.Capacity),
			strconv.Itoa(r.SlotPlaced),
			strconv.Itoa(r.CrossType),
			strconv.Itoa(r.Fallbacks),
			strconv.Itoa(r.Overlaps),
			fmt.Sprintf("%.1f%%", r.Utilization),
		})
	}
	printTable(w, []string{"Scenario", "Slots", "Own Grid", "Cross-Type", "Fallback", "Overlaps", "Layer 0 Use"}, rows)
}
