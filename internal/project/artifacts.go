package project

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	oerrors "github.com/opmodel/release/internal/errors"
)

// BuildDir is where the build leaves its outputs.
const BuildDir = "target"

// packagingExtensions maps packagings whose primary artifact is not named
// after the packaging itself.
var packagingExtensions = map[string]string{
	"bundle":       "jar",
	"maven-plugin": "jar",
	"ejb":          "jar",
}

// Artifacts implements Project. The descriptor is always reported; build
// outputs only when present in the build directory.
func (p *POM) Artifacts(kind ArtifactKind) ([]Artifact, error) {
	v, err := p.Version()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, oerrors.NewUserError("project declares no version", p.location(),
			"Add a <version> element to the project.")
	}

	base := Artifact{
		GroupID:    p.GroupID(),
		ArtifactID: p.artifactID(),
		Version:    v.String(),
	}

	switch kind {
	case ArtifactDescriptor:
		a := base
		a.Kind = ArtifactDescriptor
		a.Extension = "pom"
		a.Path = DescriptorName
		return []Artifact{a}, nil

	case ArtifactPrimary:
		if p.Packaging() == "pom" {
			return nil, nil
		}
		a := base
		a.Kind = ArtifactPrimary
		a.Extension = p.primaryExtension()
		a.Path = p.fs.Join(BuildDir, a.FileName())
		if _, err := p.fs.Stat(a.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		} else if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", a.Path, err)
		}
		return []Artifact{a}, nil

	case ArtifactAttached:
		return p.attachedArtifacts(base)

	default:
		return nil, fmt.Errorf("unknown artifact kind %d", kind)
	}
}

// AllArtifacts returns the artifacts of every kind in publishing order.
func AllArtifacts(p Project) ([]Artifact, error) {
	var all []Artifact
	for _, kind := range ArtifactKinds {
		artifacts, err := p.Artifacts(kind)
		if err != nil {
			return nil, err
		}
		all = append(all, artifacts...)
	}
	return all, nil
}

func (p *POM) primaryExtension() string {
	packaging := p.Packaging()
	if ext, ok := packagingExtensions[packaging]; ok {
		return ext
	}
	return packaging
}

// attachedArtifacts finds files named artifactId-version-classifier.ext.
func (p *POM) attachedArtifacts(base Artifact) ([]Artifact, error) {
	entries, err := p.fs.ReadDir(BuildDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", BuildDir, err)
	}

	prefix := base.ArtifactID + "-" + base.Version + "-"
	var attached []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rest, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		classifier, ext, ok := strings.Cut(rest, ".")
		if !ok || classifier == "" || ext == "" {
			continue
		}
		a := base
		a.Kind = ArtifactAttached
		a.Classifier = classifier
		a.Extension = ext
		a.Path = p.fs.Join(BuildDir, entry.Name())
		attached = append(attached, a)
	}
	sort.Slice(attached, func(i, j int) bool { return attached[i].Path < attached[j].Path })
	return attached, nil
}
