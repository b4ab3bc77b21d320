// Package project is the project collaborator of a release: it reads and
// edits the project descriptor, enumerates built artifacts and exposes the
// project's variables as a read-only scope.
package project

import (
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/opmodel/release/internal/scope"
	"github.com/opmodel/release/internal/version"
)

// Project is what release steps need from a project. SetVersion edits the
// in-memory descriptor, Save persists it and Undo reverts the most recent
// unsaved edit or Save.
type Project interface {
	// Name is the human-readable project name.
	Name() string

	// Version returns the declared version, or nil when there is none.
	Version() (*version.Version, error)

	// SetVersion changes the version and reports whether it changed.
	SetVersion(v *version.Version) (bool, error)

	// Save writes pending edits and reports whether anything was written.
	Save() (bool, error)

	// Undo reverts the latest edit and reports whether anything changed.
	Undo() (bool, error)

	// BaseDir is the project directory.
	BaseDir() string

	// Filesystem is rooted at BaseDir. Artifact paths are relative to it.
	Filesystem() billy.Filesystem

	// Artifacts enumerates the artifacts of one kind that exist on disk.
	Artifacts(kind ArtifactKind) ([]Artifact, error)

	// Scope resolves project variables.
	Scope() scope.Scope
}

// ArtifactKind classifies project artifacts.
type ArtifactKind int

const (
	// ArtifactDescriptor is the project descriptor itself.
	ArtifactDescriptor ArtifactKind = iota
	// ArtifactPrimary is the main build output, such as the jar.
	ArtifactPrimary
	// ArtifactAttached covers classified outputs such as sources or javadoc.
	ArtifactAttached
)

// ArtifactKinds lists every kind in publishing order.
var ArtifactKinds = []ArtifactKind{ArtifactDescriptor, ArtifactPrimary, ArtifactAttached}

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactDescriptor:
		return "descriptor"
	case ArtifactPrimary:
		return "primary"
	case ArtifactAttached:
		return "attached"
	default:
		return "unknown"
	}
}

// Artifact is a file produced for a project version.
type Artifact struct {
	Kind       ArtifactKind
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Extension  string

	// Path is relative to the project filesystem.
	Path string
}

// FileName returns the repository file name:
// artifactId-version[-classifier].extension.
func (a Artifact) FileName() string {
	var b strings.Builder
	b.WriteString(a.ArtifactID)
	b.WriteByte('-')
	b.WriteString(a.Version)
	if a.Classifier != "" {
		b.WriteByte('-')
		b.WriteString(a.Classifier)
	}
	b.WriteByte('.')
	b.WriteString(a.Extension)
	return b.String()
}

// RepositoryPath returns the slash-separated location of the artifact in a
// repository: group/with/slashes/artifactId/version/FileName.
func (a Artifact) RepositoryPath() string {
	return path.Join(strings.ReplaceAll(a.GroupID, ".", "/"), a.ArtifactID, a.Version, a.FileName())
}
