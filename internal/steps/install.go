package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/opmodel/release/internal/environment"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/sequence"
)

// install copies the artifacts into the local repository and, when
// configured, the primary artifact into the install directory.
type install struct {
	deps Deps
}

func (s *install) Name() string { return Install }

func (s *install) Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) (err error) {
	log := stepLogger(env, s)
	paths := s.deps.Config.Paths

	defer func() {
		if err != nil {
			rollback(ctx, s, env, p, ec)
		}
	}()

	artifacts, _ := sequence.Value[[]project.Artifact](ec, KeyArtifacts)

	if paths.LocalRepository != "" {
		for _, a := range artifacts {
			if err := s.copy(ctx, p, ec, paths.LocalRepository, a.Path, a.RepositoryPath()); err != nil {
				return err
			}
		}
		log.Info("installed", "artifacts", len(artifacts), "to", paths.LocalRepository)
	}

	if paths.InstallDir != "" {
		for _, a := range artifacts {
			if a.Kind != project.ArtifactPrimary {
				continue
			}
			if err := s.copy(ctx, p, ec, paths.InstallDir, a.Path, a.FileName()); err != nil {
				return err
			}
			log.Info("installed", "artifact", a.FileName(), "to", paths.InstallDir)
		}
	}
	return nil
}

func (s *install) copy(ctx context.Context, p project.Project, ec *sequence.ExecutionContext, location, path, key string) error {
	target, err := s.deps.OpenRepository(ctx, location)
	if err != nil {
		return err
	}
	if err := putArtifact(ctx, target, p, path, key); err != nil {
		return err
	}
	sequence.Append(ec, KeyInstalled, Stored{Location: location, Key: key})
	return nil
}

// Undo removes the installed files, most recent first.
func (s *install) Undo(ctx context.Context, _ *environment.Environment, _ project.Project, ec *sequence.ExecutionContext) error {
	installed, _ := sequence.Value[[]Stored](ec, KeyInstalled)

	var errs []error
	var kept []Stored
	for i := len(installed) - 1; i >= 0; i-- {
		st := installed[i]
		target, err := s.deps.OpenRepository(ctx, st.Location)
		if err == nil {
			err = target.Delete(ctx, st.Key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("removing %s from %s: %w", st.Key, st.Location, err))
			kept = append(kept, st)
		}
	}

	if len(kept) == 0 {
		ec.Delete(KeyInstalled)
	} else {
		ec.Set(KeyInstalled, kept)
	}
	return errors.Join(errs...)
}
