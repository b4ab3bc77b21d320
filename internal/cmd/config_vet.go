package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/release/internal/buildinfo"
	"github.com/opmodel/release/internal/config"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the release CLI configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file parses as YAML or TOML
  3. Values pass the configuration schema
  4. This build satisfies the requires constraint, when set

The config path is resolved using precedence:
  --config flag > RELEASE_CONFIG env > <project>/.release.yaml > ~/.release/config.yaml

Examples:
  # Validate default configuration
  release config vet

  # Validate custom config path
  release config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	configPath, err := config.ExpandPath(GetConfigPath())
	if err != nil {
		return err
	}

	output.Debug("validating config", "path", configPath)

	// Check 1: Config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return oerrors.NewNotFoundError("configuration file not found", configPath,
			"Run 'release config init' to create default configuration")
	}
	output.Println(output.FormatVetCheck("Config file found", configPath))

	// Check 2 & 3: parse and validate against the schema
	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(configPath); err != nil {
		return err
	}
	output.Println(output.FormatVetCheck("Schema valid", ""))

	// Check 4: requires constraint
	store, err := config.NewLoader().Load(configPath)
	if err != nil {
		return err
	}
	cfg, err := store.Config()
	if err != nil {
		return err
	}
	if cfg.Requires != "" {
		info := buildinfo.Get()
		if err := info.CheckRequirement(cfg.Requires); err != nil {
			return err
		}
		output.Println(output.FormatVetCheck("CLI version satisfies requires", info.Version+" "+cfg.Requires))
	}

	return nil
}
