package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/version"
)

// infoModes are the modes whose successors info reports.
var infoModes = []version.Mode{version.Snapshot, version.Patch, version.Major, version.Minor}

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the project version and its successors",
		Long: `Show the project name, its current version and the version every release
mode would produce. Nothing is changed.

Examples:
  release info
  release info --dir ../service`,
		Args: cobra.NoArgs,
		RunE: runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := openProject(cfg)
	if err != nil {
		return err
	}
	current, err := p.Version()
	if err != nil {
		return err
	}

	output.Println(output.StyleNoun.Render(p.Name()))

	t := output.NewTable("", "VERSION")
	if current == nil {
		t.Row("current", "none")
		output.Println(t.String())
		return nil
	}

	t.Row("current", current.String())
	for _, mode := range infoModes {
		t.Row(mode.String(), successor(current, mode))
	}
	output.Println(t.String())
	return nil
}

// successor renders Next(current, mode), or why the mode has none.
func successor(current *version.Version, mode version.Mode) string {
	next, err := version.Next(current, mode)
	switch {
	case errors.Is(err, oerrors.ErrUnsupported):
		return output.StyleDim.Render("unsupported")
	case err != nil:
		return output.StyleDim.Render(fmt.Sprintf("error: %v", err))
	}
	return next.String()
}
