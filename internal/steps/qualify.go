package steps

import (
	"context"
	"errors"

	"github.com/opmodel/release/internal/environment"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/sequence"
	"github.com/opmodel/release/internal/vcs"
	"github.com/opmodel/release/internal/version"
)

// qualify checks that the project can be released: it has a version, the
// mode yields a successor, the worktree is clean and the tests pass.
type qualify struct {
	deps Deps
}

func (s *qualify) Name() string { return Qualify }

func (s *qualify) Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) error {
	log := stepLogger(env, s)

	current, err := p.Version()
	if err != nil {
		return err
	}
	if current == nil {
		return oerrors.NewUserError("project "+p.Name()+" declares no version", p.BaseDir(),
			"Set the project version before releasing.")
	}

	release, err := version.Next(current, ec.Mode())
	if err != nil {
		return err
	}
	ec.Set(KeyPriorVersion, current)
	ec.Set(KeyReleaseVersion, release)
	log.Info(output.FormatTransition(current, release), "mode", ec.Mode())

	run := ec.Scope()
	for name, value := range map[string]string{
		VarPriorVersion:   current.String(),
		VarReleaseVersion: release.String(),
		VarReleaseMode:    ec.Mode().String(),
	} {
		if err := run.Declare(name, value); err != nil {
			return err
		}
	}

	if err := s.checkWorktree(env, p, ec); err != nil {
		return err
	}

	noTests, err := flag(env, environment.NoTests)
	if err != nil {
		return err
	}
	if noTests {
		log.Warn("skipping tests")
		return nil
	}
	return s.deps.runCommand(ctx, env, p, ec, "testing "+p.Name(), s.deps.Config.Commands.Test)
}

// checkWorktree opens the enclosing repository and requires it to be clean.
// Projects outside version control are released without commits or tags.
func (s *qualify) checkWorktree(env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) error {
	if s.deps.OpenVCS == nil {
		return nil
	}
	r, err := s.deps.OpenVCS(p.BaseDir())
	if errors.Is(err, vcs.ErrNotRepository) {
		stepLogger(env, s).Warn("project is not under version control, skipping commits and tags")
		return nil
	}
	if err != nil {
		return err
	}

	clean, err := r.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		return oerrors.NewUserError("worktree has uncommitted changes", p.BaseDir(),
			"Commit or stash your changes before releasing.")
	}
	ec.Set(keyVCS, r)
	return nil
}

// Undo has nothing to revert; the facts are left for the caller.
func (s *qualify) Undo(context.Context, *environment.Environment, project.Project, *sequence.ExecutionContext) error {
	return nil
}
