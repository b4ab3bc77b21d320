package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/opmodel/release/internal/environment"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/sequence"
	"github.com/opmodel/release/internal/version"
)

// complete moves a dot release on to the next snapshot and commits it.
// Snapshot releases keep their version.
type complete struct {
	deps Deps
}

func (s *complete) Name() string { return Complete }

func (s *complete) Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) (err error) {
	release, ok := ec.Version(KeyReleaseVersion)
	if !ok {
		return fmt.Errorf("no release version recorded, %s must run first", Qualify)
	}
	log := stepLogger(env, s)

	if release.IsSnapshot() {
		log.Info("snapshot release keeps its version", "version", release)
		return nil
	}

	next, err := version.Next(release, version.Snapshot)
	if err != nil {
		return err
	}
	noPush, err := flag(env, environment.NoPush)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			rollback(ctx, s, env, p, ec)
		}
	}()

	if err := setAndSave(p, ec, next, keyNextSaved); err != nil {
		return err
	}
	ec.Set(KeyNextVersion, next)
	if err := ec.Scope().Declare(VarNextVersion, next.String()); err != nil {
		return err
	}
	log.Info(output.FormatTransition(release, next))

	r := repo(ec)
	if r == nil {
		return nil
	}

	descriptor, err := descriptorPath(p)
	if err != nil {
		return err
	}
	commit, err := r.Commit(ctx, "prepare next development iteration "+next.String(), descriptor)
	if err != nil {
		return err
	}
	ec.Set(KeyNextCommit, commit)

	if noPush {
		return nil
	}
	return r.Push(ctx)
}

// Undo resets the development commit and restores the descriptor.
func (s *complete) Undo(ctx context.Context, _ *environment.Environment, p project.Project, ec *sequence.ExecutionContext) error {
	var errs []error

	if commit, ok := sequence.Value[string](ec, KeyNextCommit); ok {
		if r := repo(ec); r != nil {
			if _, err := r.ResetCommit(ctx, commit); err != nil {
				errs = append(errs, err)
			} else {
				ec.Delete(KeyNextCommit)
			}
		}
	}

	if err := restore(p, ec, keyNextSaved); err != nil {
		errs = append(errs, err)
	} else {
		ec.Delete(KeyNextVersion)
	}
	return errors.Join(errs...)
}
