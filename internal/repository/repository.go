// Package repository stores released artifacts under repository keys such
// as org/example/app/1.0/app-1.0.jar. Repositories live on a filesystem or
// in an S3 bucket.
package repository

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/opmodel/release/internal/config"
	oerrors "github.com/opmodel/release/internal/errors"
)

// Repository stores artifacts by key. Keys are slash-separated and
// relative.
type Repository interface {
	// Location describes where the repository lives, for messages.
	Location() string

	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.ReadSeeker) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is stored.
	Exists(ctx context.Context, key string) (bool, error)
}

// Open returns the repository at location: a directory path, a file:// URL
// or an s3://bucket/prefix URL.
func Open(ctx context.Context, location string) (Repository, error) {
	if location == "" {
		return nil, oerrors.Wrap(oerrors.ErrUser, "no artifact repository configured, set publish.repository")
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return openDir(location)
	}

	switch scheme {
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, oerrors.Wrapf(oerrors.ErrFormat, "invalid repository URL %q", location)
		}
		return openDir(u.Path)
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, oerrors.Wrapf(oerrors.ErrFormat, "repository URL %q names no bucket", location)
		}
		return OpenS3(ctx, bucket, prefix)
	default:
		return nil, oerrors.Wrapf(oerrors.ErrUnsupported, "repository scheme %q is not supported", scheme)
	}
}

func openDir(dir string) (Repository, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	if expanded == "" {
		return nil, oerrors.Wrap(oerrors.ErrUser, "repository directory is empty")
	}
	return NewFileRepository(osfs.New(expanded), expanded), nil
}

// cleanKey validates key and strips leading slashes.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", oerrors.Wrapf(oerrors.ErrArgument, "invalid repository key %q", key)
	}
	return cleaned, nil
}

// rewind seeks body to its start.
func rewind(body io.ReadSeeker) error {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding upload: %w", err)
	}
	return nil
}
