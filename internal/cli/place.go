package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/engine"
	"github.com/piwi3910/SlotPlan/internal/export"
	"github.com/piwi3910/SlotPlan/internal/model"
	"github.com/piwi3910/SlotPlan/internal/project"
)

// placeOpts holds the flags of the place command.
type placeOpts struct {
	layoutOpts
	out    string // plan JSON
	pdf    string // floor diagram, one page per layer
	labels string // QR label sheets
	report string // Excel workbook
	quiet  bool   // skip the placement table
}

func newPlaceCmd(root *rootOpts) *cobra.Command {
	opts := &placeOpts{}

	cmd := &cobra.Command{
		Use:   "place [layout.json]",
		Short: "Assign every container of a layout to a shelf position",
		Long: `Place plans one shelf floor. Containers come from the layout file and/or
--containers, in that order; the order is their placement priority.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlace(cmd.Context(), cmd, args, root, opts)
		},
	}

	opts.layoutOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the plan as JSON")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF floor diagram")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write a PDF of QR container labels")
	cmd.Flags().StringVar(&opts.report, "report", "", "write an Excel placement report")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the placement table")

	return cmd
}

func runPlace(ctx context.Context, cmd *cobra.Command, args []string, root *rootOpts, opts *placeOpts) error {
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

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

	planner, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := planner.Plan(layout)
	if err != nil && !errors.Is(err, engine.ErrUnknownBoxType) {
		return err
	}
	prog.done(fmt.Sprintf("Planned %d containers", len(result.Placements)))

	warnings := engine.FormatWarnings(
		engine.CheckOverlaps(result.Placements),
		engine.CheckBounds(result.Placements, result.Geometry.Bounds),
	)

	if !opts.quiet {
		printPlacements(out, result)
	}
	printPlanSummary(out, result)
	for _, r := range result.Rejected {
		printError(out, "container %s: unknown box type %q, not placed", r.ID, r.BoxType)
	}
	for _, w := range warnings {
		printWarning(out, "%s", w)
	}

	if err := writeOutputs(out, app, opts, result, layout, warnings); err != nil {
		return err
	}

	if len(args) > 0 {
		if abs, err := filepath.Abs(args[0]); err == nil {
			_, err := project.UpdateAppConfig(root.appConfigPath(), func(c *model.AppConfig) error {
				c.AddRecent(abs)
				return nil
			})
			if err != nil {
				logger.Warn("could not update recent layouts", "err", err)
			}
		}
	}
	return nil
}

// outputPath places relative output names under the configured output directory.
func outputPath(app model.AppConfig, name string) string {
	if filepath.IsAbs(name) || app.OutputDir == "" {
		return name
	}
	return filepath.Join(app.OutputDir, name)
}

func writeOutputs(w io.Writer, app model.AppConfig, opts *placeOpts, result model.PlanResult, layout model.Layout, warnings []string) error {
	if opts.out != "" {
		path := outputPath(app, opts.out)
		if err := project.SavePlan(path, result); err != nil {
			return fmt.Errorf("writing plan: %w", err)
		}
		printFile(w, path)
	}
	if opts.pdf != "" {
		path := outputPath(app, opts.pdf)
		if err := export.ExportPDF(path, result, warnings); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		printFile(w, path)
	}
	if opts.labels != "" {
		path := outputPath(app, opts.labels)
		if err := export.ExportLabels(path, result, layout.Containers, app.LabelsPerPage); err != nil {
			return fmt.Errorf("writing labels: %w", err)
		}
		printFile(w, path)
	}
	if opts.report != "" {
		path := outputPath(app, opts.report)
		if err := export.ExportReport(path, result, warnings); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		printFile(w, path)
	}
	return nil
}

func printPlacements(w io.Writer, result model.PlanResult) {
	rows := make([][]string, 0, len(result.Placements))
	for i, p := range result.Placements {
		slot := "-"
		if p.Source == model.SourceSlot || p.Source == model.SourceCrossType {
			slot = fmt.Sprintf("%s r%d c%d", p.SlotType, p.Row, p.Col)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.ContainerID,
			string(p.BoxType),
			string(p.Source),
			strconv.Itoa(p.Layer),
			slot,
			fmt.Sprintf("%.3f", p.Position.X),
			fmt.Sprintf("%.3f", p.Position.Y),
			fmt.Sprintf("%.3f", p.Position.Z),
		})
	}
	printTable(w, []string{"#", "Container", "Type", "Source", "Layer", "Slot", "X", "Y", "Z"}, rows)
}

func printPlanSummary(w io.Writer, result model.PlanResult) {
	counts := result.CountBySource()
	g := result.Geometry
	printTitle(w, "Floor %d", g.Index)
	printKeyValue(w, "Footprint", fmt.Sprintf("%.3f x %.3f m", g.Bounds.Width(), g.Bounds.Length()))
	printKeyValue(w, "Base elevation", fmt.Sprintf("%.3f m (gap %.3f m)", g.BaseElevation, g.VerticalGap))
	printKeyValue(w, "Slot capacity", strconv.Itoa(result.TotalCapacity()))
	printSuccess(w, "%d placed: %d slot, %d explicit, %d cross-type, %d fallback",
		len(result.Placements),
		counts[model.SourceSlot], counts[model.SourceExplicit],
		counts[model.SourceCrossType], counts[model.SourceFallback])
}
