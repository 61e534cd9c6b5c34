package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/model"
	"github.com/piwi3910/SlotPlan/internal/project"
)

func newConfigCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the application config, engine profiles and backups",
	}

	cmd.AddCommand(newConfigInitCmd(root))
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigProfileCmd(root))
	cmd.AddCommand(newConfigExportCmd(root))
	cmd.AddCommand(newConfigImportCmd(root))
	return cmd
}

func newConfigInitCmd(root *rootOpts) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default application config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.appConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "wrote application config")
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}

func newConfigShowCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the application config and the active engine profile",
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
			showConfig(cmd.OutOrStdout(), root.appConfigPath(), app, cfg)
			return nil
		},
	}
}

func showConfig(w io.Writer, path string, app model.AppConfig, cfg model.EngineConfig) {
	profile := app.DefaultProfile
	if profile == "" {
		profile = "(built-in)"
	}
	printTitle(w, "Application")
	printKeyValue(w, "Config file", path)
	printKeyValue(w, "Profile", profile)
	printKeyValue(w, "Output dir", app.OutputDir)
	printKeyValue(w, "Labels per page", strconv.Itoa(app.LabelsPerPage))
	printKeyValue(w, "Recent layouts", strconv.Itoa(len(app.RecentLayouts)))

	printTitle(w, "Engine")
	printKeyValue(w, "Spacing", fmt.Sprintf("%.3f m", cfg.Spacing))
	printKeyValue(w, "Fallback pitch", fmt.Sprintf("%.3f m", cfg.FallbackSpacing))
	printKeyValue(w, "Default floor", fmt.Sprintf("%.3f x %.3f m", cfg.DefaultFloorWidth, cfg.DefaultFloorLength))
	elevations := make([]string, len(cfg.FloorElevations))
	for i, e := range cfg.FloorElevations {
		elevations[i] = fmt.Sprintf("%.2f", e)
	}
	printKeyValue(w, "Floor elevations", strings.Join(elevations, ", "))

	rows := make([][]string, 0, len(cfg.BoxTypes))
	for _, bt := range cfg.BoxTypes {
		rows = append(rows, []string{
			string(bt.Tag),
			fmt.Sprintf("%.3f", bt.Spec.Lateral),
			fmt.Sprintf("%.3f", bt.Spec.Depth),
			fmt.Sprintf("%.3f", bt.Spec.Height),
			fmt.Sprintf("(%.3f, %.3f)", bt.Offset.X, bt.Offset.Z),
		})
	}
	printTable(w, []string{"Type", "Width", "Depth", "Height", "Offset"}, rows)
}

func newConfigProfileCmd(root *rootOpts) *cobra.Command {
	var setDefault bool
	cmd := &cobra.Command{
		Use:   "profile [path]",
		Short: "Write the active engine profile to a .toml or .json file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.loadAppConfig()
			if err != nil {
				return err
			}
			cfg, err := root.engineConfig(app)
			if err != nil {
				return err
			}
			path := root.profilePath()
			if len(args) > 0 {
				path = args[0]
			}
			if err := project.SaveEngineProfile(path, cfg); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "wrote engine profile")
			printFile(cmd.OutOrStdout(), path)

			if setDefault {
				_, err := project.UpdateAppConfig(root.appConfigPath(), func(c *model.AppConfig) error {
					c.DefaultProfile = path
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&setDefault, "set-default", false, "make the written profile the default")
	return cmd
}

func newConfigExportCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <backup.json>",
		Short: "Back up the application config and the active engine profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.loadAppConfig()
			if err != nil {
				return err
			}
			var profile *model.EngineConfig
			if root.profile != "" || app.DefaultProfile != "" {
				cfg, err := root.engineConfig(app)
				if err != nil {
					return err
				}
				profile = &cfg
			}
			if err := project.ExportAllData(args[0], app, profile); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "exported backup")
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func newConfigImportCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Restore the application config and profile from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			app := backup.Config
			if backup.Profile != nil {
				path := root.profilePath()
				if app.DefaultProfile != "" {
					path = app.DefaultProfile
				}
				if err := project.SaveEngineProfile(path, *backup.Profile); err != nil {
					return err
				}
				app.DefaultProfile = path
				printFile(cmd.OutOrStdout(), path)
			}
			if err := project.SaveAppConfig(root.appConfigPath(), app); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "restored backup from %s (version %s)", backup.CreatedAt, backup.Version)
			return nil
		},
	}
}
