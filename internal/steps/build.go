package steps

import (
	"context"
	"fmt"

	"github.com/opmodel/release/internal/environment"
	"github.com/opmodel/release/internal/identity"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/sequence"
	"github.com/opmodel/release/internal/version"
)

// build writes the release version into the descriptor, runs the build
// command and records the artifacts it produced.
type build struct {
	deps Deps
}

func (s *build) Name() string { return Build }

func (s *build) Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) (err error) {
	release, ok := ec.Version(KeyReleaseVersion)
	if !ok {
		return fmt.Errorf("no release version recorded, %s must run first", Qualify)
	}

	defer func() {
		if err != nil {
			rollback(ctx, s, env, p, ec)
		}
	}()

	if err := setAndSave(p, ec, release, keyReleaseSaved); err != nil {
		return err
	}

	if err := s.deps.runCommand(ctx, env, p, ec, "building "+p.Name(), s.deps.Config.Commands.Build); err != nil {
		return err
	}

	artifacts, err := project.AllArtifacts(p)
	if err != nil {
		return err
	}
	ec.Set(KeyArtifacts, artifacts)
	for _, a := range artifacts {
		stepLogger(env, s).Debug("artifact", "kind", a.Kind, "path", a.Path)
	}

	// The descriptor is always listed first.
	if len(artifacts) > 0 {
		a := artifacts[0]
		id := identity.Release(a.GroupID, a.ArtifactID, a.Version).String()
		ec.Set(KeyReleaseID, id)
		if err := ec.Scope().Declare(VarReleaseID, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *build) Undo(_ context.Context, _ *environment.Environment, p project.Project, ec *sequence.ExecutionContext) error {
	ec.Delete(KeyArtifacts)
	ec.Delete(KeyReleaseID)
	return restore(p, ec, keyReleaseSaved)
}

// setAndSave changes the project version and persists it. savedKey records
// that Undo has a save to revert. An unsaved edit is discarded on failure.
func setAndSave(p project.Project, ec *sequence.ExecutionContext, v *version.Version, savedKey sequence.Key) error {
	if _, err := p.SetVersion(v); err != nil {
		return err
	}
	saved, err := p.Save()
	if err != nil {
		_, _ = p.Undo()
		return err
	}
	if saved {
		ec.Set(savedKey, true)
	}
	return nil
}

// restore reverts the save recorded under savedKey.
func restore(p project.Project, ec *sequence.ExecutionContext, savedKey sequence.Key) error {
	if saved, _ := sequence.Value[bool](ec, savedKey); !saved {
		return nil
	}
	if _, err := p.Undo(); err != nil {
		return fmt.Errorf("restoring descriptor: %w", err)
	}
	ec.Delete(savedKey)
	return nil
}
