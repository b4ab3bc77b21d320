// Package steps holds the release pipeline: qualify, build, publish,
// install and complete. Every step records what it changed in the execution
// context so that Undo can revert it.
package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/opmodel/release/internal/config"
	"github.com/opmodel/release/internal/environment"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/repository"
	"github.com/opmodel/release/internal/scope"
	"github.com/opmodel/release/internal/sequence"
	"github.com/opmodel/release/internal/shell"
	"github.com/opmodel/release/internal/vcs"
)

// Step names.
const (
	Qualify  = "qualify"
	Build    = "build"
	Publish  = "publish"
	Install  = "install"
	Complete = "complete"
)

// Facts recorded in the execution context.
const (
	KeyPriorVersion   sequence.Key = "version.prior"
	KeyReleaseVersion sequence.Key = "version.release"
	KeyNextVersion    sequence.Key = "version.next"
	KeyArtifacts      sequence.Key = "artifacts"
	KeyReleaseCommit  sequence.Key = "vcs.releaseCommit"
	KeyTag            sequence.Key = "vcs.tag"
	KeyTagPushed      sequence.Key = "vcs.tagPushed"
	KeyNextCommit     sequence.Key = "vcs.nextCommit"
	KeyUploaded       sequence.Key = "publish.uploaded"
	KeyInstalled      sequence.Key = "install.files"
	KeyReleaseID      sequence.Key = "release.id"

	keyVCS             sequence.Key = "vcs.repository"
	keyReleaseSaved    sequence.Key = "build.saved"
	keyNextSaved       sequence.Key = "complete.saved"
	keyPublishLocation sequence.Key = "publish.location"
)

// Run scope variables.
const (
	VarReleaseVersion = "release.version"
	VarPriorVersion   = "release.priorVersion"
	VarReleaseMode    = "release.mode"
	VarReleaseTag     = "release.tag"
	VarNextVersion    = "release.nextVersion"
	VarReleaseID      = "release.id"
)

// Runner runs command lines.
type Runner interface {
	Run(ctx context.Context, cmd shell.Command) (*shell.Result, error)
}

// VCS is the version control a release commits to and tags.
type VCS interface {
	IsClean() (bool, error)
	Commit(ctx context.Context, message string, paths ...string) (string, error)
	Tag(ctx context.Context, name, message string) error
	DeleteTag(ctx context.Context, name string) error
	ResetCommit(ctx context.Context, commit string) (bool, error)
	Push(ctx context.Context, tags ...string) error
	DeleteRemoteTag(ctx context.Context, name string) error
}

// Stored is a key written to a repository.
type Stored struct {
	Location string
	Key      string
}

// Deps are the collaborators shared by the steps of one run.
type Deps struct {
	Config *config.Config
	Runner Runner

	// OpenVCS returns an error wrapping vcs.ErrNotRepository when the
	// project is not under version control.
	OpenVCS func(dir string) (VCS, error)

	// OpenRepository opens an artifact repository by location.
	OpenRepository func(ctx context.Context, location string) (repository.Repository, error)
}

// DefaultDeps wires the shell runner, go-git and the repository opener.
func DefaultDeps(cfg *config.Config, runner Runner) Deps {
	return Deps{
		Config: cfg,
		Runner: runner,
		OpenVCS: func(dir string) (VCS, error) {
			return vcs.Open(dir,
				vcs.WithRemote(cfg.VCS.Remote),
				vcs.WithAuthor(vcs.Signature{Name: cfg.VCS.AuthorName, Email: cfg.VCS.AuthorEmail}),
			)
		},
		OpenRepository: repository.Open,
	}
}

// DefaultPipeline returns qualify, build, publish, install and complete.
// Install is left out when noInstall is set.
func DefaultPipeline(deps Deps, noInstall bool) sequence.Pipeline {
	p := sequence.NewPipeline(
		sequence.Factory{Name: Qualify, New: func() sequence.Sequence { return &qualify{deps: deps} }},
		sequence.Factory{Name: Build, New: func() sequence.Sequence { return &build{deps: deps} }},
		sequence.Factory{Name: Publish, New: func() sequence.Sequence { return &publish{deps: deps} }},
		sequence.Factory{Name: Install, New: func() sequence.Sequence { return &install{deps: deps} }},
		sequence.Factory{Name: Complete, New: func() sequence.Sequence { return &complete{deps: deps} }},
	)
	if noInstall {
		return p.Without(Install)
	}
	return p
}

// repo returns the VCS opened by qualify, or nil for projects outside
// version control.
func repo(ec *sequence.ExecutionContext) VCS {
	r, _ := sequence.Value[VCS](ec, keyVCS)
	return r
}

// runCommand evaluates line through the run scope and runs it in the
// project directory. An empty line is skipped.
func (d Deps) runCommand(ctx context.Context, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext, title, line string) error {
	if strings.TrimSpace(line) == "" {
		env.Log().Debug("no command configured", "for", title)
		return nil
	}
	expanded, err := scope.Evaluate(ec.Scope(), line, scope.FailOnUnresolved)
	if err != nil {
		return err
	}

	cmd := shell.Command{Line: expanded, Dir: p.BaseDir(), Title: title}
	if v, ok := ec.Version(KeyReleaseVersion); ok {
		cmd.Env = map[string]string{"RELEASE_VERSION": v.String()}
	}
	_, err = d.Runner.Run(ctx, cmd)
	return err
}

// descriptorPath returns the absolute path of the project descriptor.
func descriptorPath(p project.Project) (string, error) {
	descriptors, err := p.Artifacts(project.ArtifactDescriptor)
	if err != nil {
		return "", err
	}
	if len(descriptors) == 0 {
		return "", oerrors.NewNotFoundError("project has no descriptor", p.BaseDir(), "")
	}
	return filepath.Join(p.BaseDir(), filepath.FromSlash(descriptors[0].Path)), nil
}

// rollback undoes the partial effects of a failed Execute. Failures are
// logged, the Execute error is what the caller reports.
func rollback(ctx context.Context, s sequence.Sequence, env *environment.Environment, p project.Project, ec *sequence.ExecutionContext) {
	if err := s.Undo(ctx, env, p, ec); err != nil {
		stepLogger(env, s).Warn("rollback incomplete", "err", err)
	}
}

func stepLogger(env *environment.Environment, s sequence.Sequence) *log.Logger {
	return output.StepLogger(env.Log(), s.Name())
}

// flag reads a boolean environment variable, treating a malformed value as
// an error.
func flag(env *environment.Environment, name string) (bool, error) {
	v, err := env.Bool(name)
	if err != nil {
		return false, fmt.Errorf("variable %s: %w", name, err)
	}
	return v, nil
}
