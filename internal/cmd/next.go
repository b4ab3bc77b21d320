package cmd

import (
	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/version"
)

var nextFrom string

// NewNextCmd creates the next command.
func NewNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next MODE|VERSION",
		Short: "Print the version a release would produce",
		Long: `Print the version that 'release run MODE' would release, without changing
anything. The current version is read from the project unless --from is set.

Examples:
  # Version of the next patch release
  release next patch

  # Successor of an arbitrary version
  release next snapshot --from 1.2.0`,
		Args: cobra.ExactArgs(1),
		RunE: runNext,
	}

	cmd.Flags().StringVar(&nextFrom, "from", "", "Compute from this version instead of the project's")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	mode, err := version.ParseMode(args[0])
	if err != nil {
		return err
	}

	current, err := currentVersion()
	if err != nil {
		return err
	}

	next, err := version.Next(current, mode)
	if err != nil {
		return err
	}
	output.Println(next.String())
	return nil
}

// currentVersion returns --from when given, else the project version.
func currentVersion() (*version.Version, error) {
	if nextFrom != "" {
		return version.Parse(nextFrom)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := openProject(cfg)
	if err != nil {
		return nil, err
	}
	current, err := p.Version()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, oerrors.NewUserError("project "+p.Name()+" declares no version", p.BaseDir(),
			"Add a <version> element to the project or pass --from.")
	}
	return current, nil
}
