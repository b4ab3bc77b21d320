package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
)

// FileRepository keeps artifacts in a directory tree.
type FileRepository struct {
	fs       billy.Filesystem
	location string
}

// NewFileRepository returns a repository rooted at fsys. location is only
// used in messages.
func NewFileRepository(fsys billy.Filesystem, location string) *FileRepository {
	return &FileRepository{fs: fsys, location: location}
}

// Location implements Repository.
func (r *FileRepository) Location() string { return r.location }

// Filesystem returns the repository root.
func (r *FileRepository) Filesystem() billy.Filesystem { return r.fs }

// Put implements Repository. The object is written to a temporary file and
// renamed into place.
func (r *FileRepository) Put(ctx context.Context, key string, body io.ReadSeeker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := rewind(body); err != nil {
		return err
	}

	dir := path.Dir(name)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := r.fs.TempFile(dir, ".upload-")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := r.fs.Rename(tmp.Name(), name); err != nil {
		_ = r.fs.Remove(tmp.Name())
		return fmt.Errorf("storing %s: %w", name, err)
	}
	return nil
}

// Delete implements Repository.
func (r *FileRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

// Exists implements Repository.
func (r *FileRepository) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = r.fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("inspecting %s: %w", name, err)
	}
}
