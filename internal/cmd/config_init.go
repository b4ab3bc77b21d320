package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/release/internal/config"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
)

var (
	configInitForce   bool
	configInitProject bool
)

const configHeader = `# release CLI configuration.
# Command lines may use ${name} placeholders such as ${release.version},
# ${project.artifactId} or ${env.HOME}.
`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write the default configuration.

Creates ~/.release/config.yaml, or .release.yaml in the project directory
with --project. The file holds:
  - test and build command lines
  - local repository and install locations
  - the publish repository and its retry count
  - git remote, tag prefix and release author

Examples:
  # Initialize user configuration
  release config init

  # Initialize configuration for one project
  release config init --project --dir ./service

  # Overwrite existing configuration
  release config init --force`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")
	cmd.Flags().BoolVar(&configInitProject, "project", false,
		"Write "+config.ProjectConfigName+" in the project directory")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target, err := initTarget()
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); err == nil && !configInitForce {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: target,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.DefaultConfig()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := config.EnsureDir(target); err != nil {
		return oerrors.Wrapf(oerrors.ErrUser, "could not create %s", filepath.Dir(target))
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o600); err != nil {
		return oerrors.Wrapf(oerrors.ErrUser, "could not write %s", target)
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + target))
	output.Println("Validate with: release config vet")

	return nil
}

// initTarget returns the file config init writes.
func initTarget() (string, error) {
	if configInitProject {
		return filepath.Join(dirFlag, config.ProjectConfigName), nil
	}
	paths, err := config.DefaultPaths()
	if err != nil {
		return "", oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}
	return paths.ConfigFile, nil
}
