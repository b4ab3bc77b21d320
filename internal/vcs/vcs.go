// Package vcs wraps the go-git operations a release needs: checking that the
// worktree is clean, committing the descriptor, tagging, pushing, and the
// compensating resets and deletions used during undo.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	oerrors "github.com/opmodel/release/internal/errors"
)

// DefaultRemote is the remote used when none is configured.
const DefaultRemote = "origin"

// ErrNotRepository is returned by Open when no repository encloses the
// directory.
var ErrNotRepository = fmt.Errorf("not a git repository: %w", oerrors.ErrNotFound)

// Signature identifies the author of release commits and tags.
type Signature struct {
	Name  string
	Email string
}

// Option configures a Repository.
type Option func(*Repository)

// WithAuthor overrides the author read from the git configuration.
func WithAuthor(sig Signature) Option {
	return func(r *Repository) {
		if sig.Name != "" {
			r.author.Name = sig.Name
		}
		if sig.Email != "" {
			r.author.Email = sig.Email
		}
	}
}

// WithRemote sets the remote pushed to.
func WithRemote(name string) Option {
	return func(r *Repository) {
		if name != "" {
			r.remote = name
		}
	}
}

// Repository is a non-bare git repository enclosing a project.
type Repository struct {
	repo     *git.Repository
	worktree *git.Worktree
	root     string
	author   Signature
	remote   string
	now      func() time.Time
}

// Open finds the repository enclosing dir, walking up parent directories.
func Open(dir string, opts ...Option) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, oerrors.Wrapf(oerrors.ErrUnsupported, "repository at %s has no worktree", abs)
	}

	r := &Repository{
		repo:     repo,
		worktree: wt,
		root:     wt.Filesystem.Root(),
		remote:   DefaultRemote,
		now:      time.Now,
	}
	r.author = configuredAuthor(repo)
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// configuredAuthor reads user.name and user.email, falling back from the
// repository to the global configuration.
func configuredAuthor(repo *git.Repository) Signature {
	var sig Signature
	for _, scope := range []gitconfig.Scope{gitconfig.LocalScope, gitconfig.GlobalScope} {
		cfg, err := repo.ConfigScoped(scope)
		if err != nil {
			continue
		}
		if sig.Name == "" {
			sig.Name = cfg.User.Name
		}
		if sig.Email == "" {
			sig.Email = cfg.User.Email
		}
	}
	return sig
}

// Root returns the worktree root.
func (r *Repository) Root() string { return r.root }

// Remote returns the remote pushed to.
func (r *Repository) Remote() string { return r.remote }

// Author returns the signature used for commits and tags.
func (r *Repository) Author() Signature { return r.author }

// IsClean reports whether the worktree has no staged or modified tracked
// files. Untracked files are ignored.
func (r *Repository) IsClean() (bool, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	for _, fs := range status {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			return false, nil
		}
	}
	return true, nil
}

// Head returns the hash of the commit HEAD points to.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// Branch returns the short name of the checked out branch.
func (r *Repository) Branch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", oerrors.Wrap(oerrors.ErrUser, "HEAD is detached, check out a branch before releasing")
	}
	return ref.Name().Short(), nil
}

// Commit stages the given paths and commits them. Paths may be absolute or
// relative to the worktree root. It returns the new commit hash.
func (r *Repository) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if message == "" {
		return "", oerrors.Wrap(oerrors.ErrArgument, "commit message cannot be empty")
	}
	if r.author.Name == "" || r.author.Email == "" {
		return "", oerrors.Wrap(oerrors.ErrUser, "commit author is unknown, set vcs.authorName and vcs.authorEmail or git user.name and user.email")
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return "", err
		}
		if _, err := r.worktree.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
	}

	sig := r.signature()
	hash, err := r.worktree.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", oerrors.Wrap(oerrors.ErrUser, "nothing to commit")
		}
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// Tag creates an annotated tag on HEAD.
func (r *Repository) Tag(ctx context.Context, name, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return oerrors.Wrap(oerrors.ErrArgument, "tag name cannot be empty")
	}
	if _, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true); err == nil {
		return oerrors.Wrapf(oerrors.ErrUser, "tag %s already exists", name)
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}
	if message == "" {
		message = name
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  r.signature(),
		Message: message,
	}); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// HasTag reports whether a local tag exists.
func (r *Repository) HasTag(name string) bool {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	return err == nil
}

// DeleteTag removes a local tag. Deleting a missing tag is not an error.
func (r *Repository) DeleteTag(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.HasTag(name) {
		return nil
	}
	if err := r.repo.DeleteTag(name); err != nil {
		return fmt.Errorf("deleting tag %s: %w", name, err)
	}
	return nil
}

// ResetCommit moves the current branch back to the parent of commit, keeping
// the worktree contents. It does nothing unless HEAD is commit, so a reset
// never discards commits made after the release.
func (r *Repository) ResetCommit(ctx context.Context, commit string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	head, err := r.Head()
	if err != nil {
		return false, err
	}
	if head != commit {
		return false, nil
	}

	c, err := r.repo.CommitObject(plumbing.NewHash(commit))
	if err != nil {
		return false, fmt.Errorf("reading commit %s: %w", commit, err)
	}
	if c.NumParents() == 0 {
		return false, oerrors.Wrapf(oerrors.ErrUnsupported, "commit %s has no parent to reset to", commit)
	}
	parent := c.ParentHashes[0]

	if err := r.worktree.Reset(&git.ResetOptions{Commit: parent, Mode: git.MixedReset}); err != nil {
		return false, fmt.Errorf("resetting to %s: %w", parent, err)
	}
	return true, nil
}

// Push pushes the current branch and the given tags to the remote.
func (r *Repository) Push(ctx context.Context, tags ...string) error {
	branch, err := r.Branch()
	if err != nil {
		return err
	}
	ref := plumbing.NewBranchReferenceName(branch)
	specs := []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("%s:%s", ref, ref))}
	for _, tag := range tags {
		t := plumbing.NewTagReferenceName(tag)
		specs = append(specs, gitconfig.RefSpec(fmt.Sprintf("%s:%s", t, t)))
	}
	return r.push(ctx, specs)
}

// DeleteRemoteTag deletes a tag on the remote.
func (r *Repository) DeleteRemoteTag(ctx context.Context, name string) error {
	spec := gitconfig.RefSpec(":" + plumbing.NewTagReferenceName(name).String())
	return r.push(ctx, []gitconfig.RefSpec{spec})
}

func (r *Repository) push(ctx context.Context, specs []gitconfig.RefSpec) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   specs,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrRemoteNotFound):
		return oerrors.Wrapf(oerrors.ErrUser, "remote %s is not configured", r.remote)
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return oerrors.Wrapf(oerrors.ErrUser, "remote %s has diverged, pull before releasing", r.remote)
	default:
		return fmt.Errorf("pushing to %s: %w", r.remote, err)
	}
}

func (r *Repository) signature() *object.Signature {
	return &object.Signature{Name: r.author.Name, Email: r.author.Email, When: r.now()}
}

// relative converts p to a slash-separated path inside the worktree.
func (r *Repository) relative(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(p), nil
	}
	rel, err := filepath.Rel(r.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", oerrors.Wrapf(oerrors.ErrArgument, "%s is outside the repository at %s", p, r.root)
	}
	return filepath.ToSlash(rel), nil
}
