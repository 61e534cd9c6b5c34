package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/engine"
	"github.com/piwi3910/SlotPlan/internal/model"
)

type gridOpts struct {
	floor  int
	width  float64
	length float64
}

func newGridCmd(root *rootOpts) *cobra.Command {
	opts := &gridOpts{}

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the slot grid of every box type on a floor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.loadAppConfig()
			if err != nil {
				return err
			}
			cfg, err := root.engineConfig(app)
			if err != nil {
				return err
			}
			desc := model.FloorDescriptor{Index: opts.floor}
			if cmd.Flags().Changed("width") {
				desc.Width = model.Float64(opts.width)
			}
			if cmd.Flags().Changed("length") {
				desc.Length = model.Float64(opts.length)
			}
			return runGrid(cmd.OutOrStdout(), cfg, desc)
		},
	}

	cmd.Flags().IntVar(&opts.floor, "floor", 0, "floor index")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "floor width in meters (default from profile)")
	cmd.Flags().Float64Var(&opts.length, "length", 0, "floor length in meters (default from profile)")

	return cmd
}

func runGrid(w io.Writer, cfg model.EngineConfig, desc model.FloorDescriptor) error {
	planner, err := engine.New(cfg)
	if err != nil {
		return err
	}
	geom := engine.ResolveFloor(desc, cfg)
	grids := planner.Grids(geom)

	printTitle(w, "Floor %d: %.3f x %.3f m, gap %.3f m", geom.Index, geom.Bounds.Width(), geom.Bounds.Length(), geom.VerticalGap)

	rows := make([][]string, 0, len(grids))
	total := 0
	for _, g := range grids {
		spec, _ := planner.Registry().Lookup(g.Type)
		total += g.Capacity()
		rows = append(rows, []string{
			string(g.Type),
			fmt.Sprintf("%.2f x %.2f x %.2f", spec.Lateral, spec.Depth, spec.Height),
			strconv.Itoa(g.Cols),
			strconv.Itoa(g.Rows),
			strconv.Itoa(g.Layers),
			strconv.Itoa(g.Capacity()),
			fmt.Sprintf("(%.3f, %.3f)", g.Center.X, g.Center.Z),
		})
	}
	printTable(w, []string{"Type", "Box (W x D x H)", "Cols", "Rows", "Layers", "Slots", "Center"}, rows)
	printKeyValue(w, "Total slots", strconv.Itoa(total))
	return nil
}
