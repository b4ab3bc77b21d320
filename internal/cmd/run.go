package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/opmodel/release/internal/environment"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/sequence"
	"github.com/opmodel/release/internal/shell"
	"github.com/opmodel/release/internal/steps"
	"github.com/opmodel/release/internal/version"
)

var (
	runNoTests   bool
	runNoPush    bool
	runNoInstall bool
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run MODE|VERSION",
		Short: "Release the project",
		Long: `Release the project in the current (or --dir) directory.

MODE is one of:
  snapshot   next snapshot of the current version
  patch      release the current version, or the next patch after a release
  major      next major version
  info       show the project and its successors (same as 'release info')

Any other argument is taken as the version to release.

Steps run in order: qualify, build, publish, install, complete. When a
step fails, the steps before it are undone in reverse order and the
command exits with status 6.

Examples:
  # Release 1.4.0-SNAPSHOT-3 as 1.4.0, then move on to 1.4.1-SNAPSHOT-1
  release run patch

  # Release an explicit version without pushing
  release run 2.0.0 --no-push

  # Cut the next snapshot, skipping tests
  release run snapshot --no-tests`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}

	cmd.Flags().BoolVar(&runNoTests, "no-tests", false, "Skip the test command")
	cmd.Flags().BoolVar(&runNoPush, "no-push", false, "Do not push or upload")
	cmd.Flags().BoolVar(&runNoInstall, "no-install", false, "Skip installing artifacts locally")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := version.ParseMode(args[0])
	if err != nil {
		return err
	}
	if mode.Kind() == version.KindInfo {
		return runInfo(cmd, nil)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := openProject(cfg)
	if err != nil {
		return err
	}

	env := environment.New(p.BaseDir(),
		environment.WithLogger(output.ReleaseLogger(p.Name())),
		environment.WithFlag(environment.NoTests, runNoTests),
		environment.WithFlag(environment.NoPush, runNoPush),
		environment.WithFlag(environment.NoInstall, runNoInstall),
	)

	runnerOpts := []shell.Option{shell.WithLogger(env.Log())}
	if verboseFlag {
		runnerOpts = append(runnerOpts, shell.WithStream(os.Stderr))
	} else {
		runnerOpts = append(runnerOpts, shell.WithSpinner(output.IsTTY()))
	}

	pipeline := steps.DefaultPipeline(steps.DefaultDeps(cfg, shell.New(runnerOpts...)), runNoInstall)
	controller := sequence.NewController(mode, pipeline)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := controller.Execute(ctx, env, p)
	if !result.Failed() {
		output.Println(output.RenderStepTable(summarize(pipeline, result.Context)))
		printArtifacts(cfg.Publish.Repository, result.Context)
		released, _ := result.Context.Version(steps.KeyReleaseVersion)
		output.Println(output.FormatCheckmark(fmt.Sprintf("released %s %s", p.Name(), released)))
		return nil
	}

	env.Log().Error("release failed, rolling back", "step", result.FailedStep, "err", result.Err)

	// Undo must run even when the release was interrupted.
	ec, undoErr := controller.Undo(context.WithoutCancel(ctx), env, p)
	if undoErr != nil {
		for _, e := range ec.UndoErrors() {
			env.Log().Warn("rollback incomplete", "err", e)
		}
	}
	output.Println(output.RenderStepTable(summarize(pipeline, ec)))

	return oerrors.NewExitError(result.Err, oerrors.ExitReleaseFailed)
}

// printArtifacts renders the files the run uploaded and installed, one
// tree per location.
func printArtifacts(publishLocation string, ec *sequence.ExecutionContext) {
	trees := make(map[string]map[string]string)
	add := func(location, key string) {
		if trees[location] == nil {
			trees[location] = make(map[string]string)
		}
		trees[location][key] = ""
	}

	uploaded, _ := sequence.Value[[]string](ec, steps.KeyUploaded)
	for _, key := range uploaded {
		add(publishLocation, key)
	}
	installed, _ := sequence.Value[[]steps.Stored](ec, steps.KeyInstalled)
	for _, st := range installed {
		add(st.Location, st.Key)
	}

	locations := slices.Sorted(maps.Keys(trees))
	for _, location := range locations {
		output.Println(output.RenderArtifactTree(location, trees[location]))
	}
}

// summarize reports the last recorded state of every pipeline step. Steps
// that never ran are skipped.
func summarize(pipeline sequence.Pipeline, ec *sequence.ExecutionContext) []output.StepStatus {
	state := make(map[string]output.StepStatus)
	if ec != nil {
		for _, e := range ec.Journal() {
			st := output.StepStatus{Step: e.Step, Detail: e.Duration.Round(time.Millisecond).String()}
			switch {
			case e.Phase == sequence.PhaseExecute && e.Err == nil:
				st.Status = output.StatusDone
			case e.Phase == sequence.PhaseExecute:
				st.Status = output.StatusFailed
				st.Detail = e.Err.Error()
			case e.Err == nil:
				st.Status = output.StatusUndone
			default:
				st.Status = output.StatusUndoFailed
				st.Detail = e.Err.Error()
			}
			state[e.Step] = st
		}
	}

	rows := make([]output.StepStatus, 0, len(pipeline))
	for _, name := range pipeline.Names() {
		st, ok := state[name]
		if !ok {
			st = output.StepStatus{Step: name, Status: output.StatusSkipped}
		}
		rows = append(rows, st)
	}
	return rows
}
