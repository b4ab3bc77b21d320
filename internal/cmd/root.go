// Package cmd provides CLI command implementations.
package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/release/internal/buildinfo"
	"github.com/opmodel/release/internal/config"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/scope"
)

var (
	// Global flags
	configFlag     string
	dirFlag        string
	verboseFlag    bool
	timestampsFlag bool

	// Resolved configuration (loaded during PersistentPreRunE)
	configPath    config.ResolveConfigPathResult
	releaseConfig *config.Config
	configErr     error
)

// NewRootCmd creates the root command for the release CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "release",
		Short: "Release automation for versioned projects",
		Long: `release moves a project from a snapshot to a released version: it runs the
tests, builds with the release version, tags and publishes the result, then
advances the project to the next snapshot. A failing step rolls back every
step that completed before it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: RELEASE_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewInfoCmd())
	rootCmd.AddCommand(NewNextCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	releaseConfig, configErr = nil, nil

	resolved, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue:  configFlag,
		ProjectDir: dirFlag,
	})
	if err != nil {
		return err
	}
	configPath = resolved

	// Don't fail here - config vet and version work without a usable config
	timestampsSet := cmd.Flags().Changed("timestamps")
	var cfg *config.Config
	store, err := config.NewLoader().Load(resolved.ConfigPath)
	if err == nil {
		if timestampsSet {
			store.Set("log.timestamps", strconv.FormatBool(timestampsFlag))
		}
		cfg, err = store.Config()
	}
	if err != nil {
		configErr = err
	} else {
		releaseConfig = cfg
	}

	// Timestamps: flag (through the store) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	switch {
	case cfg != nil:
		logCfg.Timestamps = cfg.Log.Timestamps
	case timestampsSet:
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		output.Debug("initializing CLI", "dir", dirFlag)
		values := []config.ResolvedValue{resolved.Value()}
		if store != nil {
			values = append(values, store.Resolved()...)
		}
		config.LogResolvedValues(values)
	}
	if configErr != nil {
		output.Debug("config load error", "error", configErr)
	}

	return nil
}

// loadConfig returns the loaded configuration after checking that this
// build satisfies its requires constraint.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	if releaseConfig == nil {
		return config.DefaultConfig(), nil
	}
	if err := buildinfo.Get().CheckRequirement(releaseConfig.Requires); err != nil {
		return nil, err
	}
	return releaseConfig, nil
}

// openProject loads the project in the --dir directory. Its scope is
// enclosed by the configured variables, which in turn see the process
// environment as env.NAME.
func openProject(cfg *config.Config) (*project.POM, error) {
	return project.Open(dirFlag, project.WithParentScope(rootScope(cfg)))
}

func rootScope(cfg *config.Config) scope.Scope {
	environ := scope.NewReadOnly("environment", scope.SourceFunc(func(name string) (string, bool) {
		key, ok := strings.CutPrefix(name, "env.")
		if !ok {
			return "", false
		}
		return os.LookupEnv(key)
	}), nil)
	return scope.NewWithValues(environ, cfg.Variables)
}

// GetConfigPath returns the resolved config path value.
func GetConfigPath() string {
	if configPath.ConfigPath != "" {
		return configPath.ConfigPath
	}
	return configFlag
}
