package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/importer"
	"github.com/piwi3910/SlotPlan/internal/model"
	"github.com/piwi3910/SlotPlan/internal/project"
)

// layoutOpts are the flags that assemble a layout from files.
type layoutOpts struct {
	containers string  // CSV or Excel container list, appended to the layout's containers
	floorDXF   string  // Drawing whose largest closed shape becomes the floor bounds
	dxfScale   float64 // Drawing units to meters
	floor      int
	rotation   float64
}

func (o *layoutOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.containers, "containers", "c", "", "container list to import (.csv, .xlsx)")
	cmd.Flags().StringVar(&o.floorDXF, "floor-dxf", "", "DXF drawing of the floor outline")
	cmd.Flags().Float64Var(&o.dxfScale, "dxf-scale", 0.001, "meters per drawing unit")
	cmd.Flags().IntVar(&o.floor, "floor", 0, "floor index (overrides the layout file)")
	cmd.Flags().Float64Var(&o.rotation, "rotation", 0, "floor rotation in radians (overrides the layout file)")
}

// load builds the layout from the optional layout file and the import flags.
func (o *layoutOpts) load(cmd *cobra.Command, args []string, logger *log.Logger) (model.Layout, error) {
	layout := model.NewLayout()
	if len(args) > 0 {
		loaded, err := project.LoadLayout(args[0])
		if err != nil {
			return model.Layout{}, err
		}
		layout = loaded
		logger.Debug("loaded layout", "path", args[0], "containers", len(layout.Containers))
	}

	if o.containers != "" {
		res := importer.ImportContainers(o.containers)
		for _, w := range res.Warnings {
			logger.Warn(w)
		}
		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				logger.Error(e)
			}
			return model.Layout{}, fmt.Errorf("importing %s: %d errors", o.containers, len(res.Errors))
		}
		layout.Containers = append(layout.Containers, res.Containers...)
		logger.Debug("imported containers", "path", o.containers, "count", len(res.Containers))
	}

	if o.floorDXF != "" {
		res := importer.ImportFloorDXF(o.floorDXF, o.dxfScale)
		for _, w := range res.Warnings {
			logger.Warn(w)
		}
		if len(res.Errors) > 0 || res.Bounds == nil {
			return model.Layout{}, fmt.Errorf("importing floor %s: %w", o.floorDXF, errors.Join(stringErrors(res.Errors)...))
		}
		layout.Floor.Bounds = res.Bounds
		logger.Debug("imported floor outline", "path", o.floorDXF,
			"width", res.Bounds.Width(), "length", res.Bounds.Length())
	}

	if cmd.Flags().Changed("floor") {
		layout.Floor.Index = o.floor
	}
	if cmd.Flags().Changed("rotation") {
		layout.Floor.Rotation = o.rotation
	}

	if len(layout.Containers) == 0 {
		return model.Layout{}, errors.New("no containers to place: pass a layout file or --containers")
	}
	return layout, nil
}

func stringErrors(msgs []string) []error {
	if len(msgs) == 0 {
		return []error{errors.New("no closed floor outline found")}
	}
	errs := make([]error, len(msgs))
	for i, m := range msgs {
		errs[i] = errors.New(m)
	}
	return errs
}
