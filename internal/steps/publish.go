package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/opmodel/release/internal/environment"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/repository"
	"github.com/opmodel/release/internal/sequence"
)

// publish commits and tags the release, pushes both and uploads the
// artifacts to the configured repository.
type publish struct {
	deps Deps
}

func (s *publish) Name() string { return Publish }

func (s *publish) Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) (err error) {
	release, ok := ec.Version(KeyReleaseVersion)
	if !ok {
		return fmt.Errorf("no release version recorded, %s must run first", Qualify)
	}
	log := stepLogger(env, s)

	defer func() {
		if err != nil {
			rollback(ctx, s, env, p, ec)
		}
	}()

	noPush, err := flag(env, environment.NoPush)
	if err != nil {
		return err
	}

	tag := s.deps.Config.VCS.TagPrefix + release.String()
	if err := ec.Scope().Declare(VarReleaseTag, tag); err != nil {
		return err
	}

	r := repo(ec)
	if r != nil {
		descriptor, err := descriptorPath(p)
		if err != nil {
			return err
		}
		commit, err := r.Commit(ctx, "release "+release.String(), descriptor)
		if err != nil {
			return err
		}
		ec.Set(KeyReleaseCommit, commit)

		if err := r.Tag(ctx, tag, tagMessage(release.String(), ec)); err != nil {
			return err
		}
		ec.Set(KeyTag, tag)
		log.Info("tagged", "tag", tag, "commit", shortHash(commit))
	}

	if noPush {
		log.Warn("skipping push and upload")
		return nil
	}

	if r != nil {
		if err := r.Push(ctx, tag); err != nil {
			return err
		}
		ec.Set(KeyTagPushed, true)
		log.Info("pushed", "tag", tag)
	}

	return s.upload(ctx, env, p, ec)
}

func (s *publish) upload(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) error {
	log := stepLogger(env, s)
	location := s.deps.Config.Publish.Repository
	if location == "" {
		log.Warn("no publish.repository configured, skipping upload")
		return nil
	}

	target, err := s.deps.OpenRepository(ctx, location)
	if err != nil {
		return err
	}
	retrying := repository.WithRetries(target, s.deps.Config.Publish.Retries, repository.WithRetryLogger(log))
	ec.Set(keyPublishLocation, location)

	artifacts, _ := sequence.Value[[]project.Artifact](ec, KeyArtifacts)
	for _, a := range artifacts {
		if err := putArtifact(ctx, retrying, p, a.Path, a.RepositoryPath()); err != nil {
			return err
		}
		sequence.Append(ec, KeyUploaded, a.RepositoryPath())
		log.Info("uploaded", "artifact", a.FileName(), "to", target.Location())
	}
	return nil
}

// Undo deletes the uploads and the remote tag, then the local tag and the
// release commit. It continues past failures and returns them joined.
func (s *publish) Undo(ctx context.Context, env *environment.Environment, _ project.Project, ec *sequence.ExecutionContext) error {
	log := stepLogger(env, s)
	var errs []error

	if uploaded, _ := sequence.Value[[]string](ec, KeyUploaded); len(uploaded) > 0 {
		location, _ := sequence.Value[string](ec, keyPublishLocation)
		if err := s.deleteUploads(ctx, location, uploaded); err != nil {
			errs = append(errs, err)
		} else {
			ec.Delete(KeyUploaded)
		}
	}

	r := repo(ec)
	tag, hasTag := sequence.Value[string](ec, KeyTag)

	if pushed, _ := sequence.Value[bool](ec, KeyTagPushed); pushed && r != nil {
		if err := r.DeleteRemoteTag(ctx, tag); err != nil {
			errs = append(errs, fmt.Errorf("deleting remote tag %s: %w", tag, err))
		} else {
			ec.Delete(KeyTagPushed)
			log.Warn("the release commit stays on the remote branch", "tag", tag)
		}
	}

	if hasTag && r != nil {
		if err := r.DeleteTag(ctx, tag); err != nil {
			errs = append(errs, err)
		} else {
			ec.Delete(KeyTag)
		}
	}

	if commit, ok := sequence.Value[string](ec, KeyReleaseCommit); ok && r != nil {
		if _, err := r.ResetCommit(ctx, commit); err != nil {
			errs = append(errs, err)
		} else {
			ec.Delete(KeyReleaseCommit)
		}
	}

	return errors.Join(errs...)
}

func (s *publish) deleteUploads(ctx context.Context, location string, keys []string) error {
	target, err := s.deps.OpenRepository(ctx, location)
	if err != nil {
		return err
	}
	retrying := repository.WithRetries(target, s.deps.Config.Publish.Retries)

	var errs []error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := retrying.Delete(ctx, keys[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// putArtifact uploads the project file at path under key.
func putArtifact(ctx context.Context, target repository.Repository, p project.Project, path, key string) error {
	f, err := p.Filesystem().Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return target.Put(ctx, key, f)
}

// tagMessage annotates a release tag with the release identity.
func tagMessage(release string, ec *sequence.ExecutionContext) string {
	msg := "release " + release
	if id, ok := sequence.Value[string](ec, KeyReleaseID); ok {
		msg += "\n\nRelease-Id: " + id
	}
	return msg
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
