package cli

import (
	"context"
	"fmt"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SlotPlan/internal/model"
	"github.com/piwi3910/SlotPlan/internal/project"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. The main
// package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose    bool
	configPath string
	profile    string
}

// Execute runs the slotplan CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "slotplan",
		Short:        "SlotPlan assigns storage boxes to shelf slots",
		Long:         `SlotPlan computes deterministic shelf positions for storage containers: it tiles each floor with a slot grid per box size, assigns containers in order and falls back to overflow positions when the grids are full.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("slotplan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "application config file (default ~/.slotplan/config.json)")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "engine profile (.toml or .json); overrides the config's default profile")

	root.AddCommand(newPlaceCmd(opts))
	root.AddCommand(newGridCmd(opts))
	root.AddCommand(newCompareCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

func (o *rootOpts) appConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return project.DefaultConfigPath()
}

// profilePath is where profiles are written when no path is given: next to
// the application config.
func (o *rootOpts) profilePath() string {
	if o.configPath == "" {
		return project.DefaultProfilePath()
	}
	return filepath.Join(filepath.Dir(o.configPath), "profile.toml")
}

func (o *rootOpts) loadAppConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(o.appConfigPath())
}

// engineConfig resolves the engine profile: the --profile flag first, then
// the app config's default profile, then the built-in geometry.
func (o *rootOpts) engineConfig(app model.AppConfig) (model.EngineConfig, error) {
	path := o.profile
	if path == "" {
		path = app.DefaultProfile
	}
	cfg, err := project.LoadProfileOrDefault(path)
	if err != nil {
		return model.EngineConfig{}, err
	}
	return cfg, nil
}
