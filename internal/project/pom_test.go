package project

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/scope"
	"github.com/opmodel/release/internal/version"
)

const simplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>dev.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0.0-SNAPSHOT-4</version>
  <properties>
    <java.version>21</java.version>
  </properties>
</project>
`

const revisionPOM = `<project>
  <groupId>dev.example</groupId>
  <artifactId>lib</artifactId>
  <version>${revision}</version>
  <packaging>bundle</packaging>
  <properties>
    <revision>2.1.3-SNAPSHOT-1</revision>
  </properties>
</project>
`

const inheritedPOM = `<project>
  <parent>
    <groupId>dev.parent</groupId>
    <artifactId>parent</artifactId>
    <version>3.0</version>
  </parent>
  <artifactId>child</artifactId>
</project>
`

func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func load(t *testing.T, pom string) (*POM, billy.Filesystem) {
	t.Helper()
	fsys := newFS(t, map[string]string{DescriptorName: pom})
	p, err := Load(fsys)
	require.NoError(t, err)
	return p, fsys
}

func TestLoad_Coordinates(t *testing.T) {
	p, _ := load(t, simplePOM)

	assert.Equal(t, "app", p.Name())
	assert.Equal(t, "dev.example", p.GroupID())
	assert.Equal(t, "jar", p.Packaging())
	assert.Equal(t, map[string]string{"java.version": "21"}, p.Properties())

	v, err := p.Version()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-SNAPSHOT-4", v.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		sentinel error
	}{
		{name: "missing descriptor", files: map[string]string{}, sentinel: oerrors.ErrNotFound},
		{name: "malformed xml", files: map[string]string{DescriptorName: "<project><artifactId>x</project>"}, sentinel: oerrors.ErrFormat},
		{name: "wrong root", files: map[string]string{DescriptorName: "<settings/>"}, sentinel: oerrors.ErrFormat},
		{name: "no artifactId", files: map[string]string{DescriptorName: "<project><version>1</version></project>"}, sentinel: oerrors.ErrUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFS(t, tt.files))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestVersion_PropertyIndirection(t *testing.T) {
	p, fsys := load(t, revisionPOM)

	v, err := p.Version()
	require.NoError(t, err)
	assert.Equal(t, "2.1.3-SNAPSHOT-1", v.String())

	changed, err := p.SetVersion(version.MustParse("2.1.3-SNAPSHOT-2"))
	require.NoError(t, err)
	assert.True(t, changed)

	saved, err := p.Save()
	require.NoError(t, err)
	assert.True(t, saved)

	data, err := util.ReadFile(fsys, DescriptorName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<revision>2.1.3-SNAPSHOT-2</revision>")
	assert.Contains(t, string(data), "<version>${revision}</version>", "the placeholder stays in place")
}

func TestVersion_Inherited(t *testing.T) {
	p, fsys := load(t, inheritedPOM)

	assert.Equal(t, "dev.parent", p.GroupID())
	v, err := p.Version()
	require.NoError(t, err)
	assert.Equal(t, "3.0", v.String())

	_, err = p.SetVersion(version.MustParse("3.0.1"))
	require.NoError(t, err)
	_, err = p.Save()
	require.NoError(t, err)

	data, err := util.ReadFile(fsys, DescriptorName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<artifactId>child</artifactId><version>3.0.1</version>")
	assert.Contains(t, string(data), "<version>3.0</version>", "parent version is untouched")
}

func TestVersion_MissingAndMalformed(t *testing.T) {
	p, _ := load(t, "<project><artifactId>x</artifactId></project>")
	v, err := p.Version()
	require.NoError(t, err)
	assert.Nil(t, v)

	p, _ = load(t, "<project><artifactId>x</artifactId><version>1..0</version></project>")
	_, err = p.Version()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrFormat))
	assert.Contains(t, err.Error(), DescriptorName)
}

func TestSaveUndo(t *testing.T) {
	p, fsys := load(t, simplePOM)

	changed, err := p.SetVersion(version.MustParse("1.0.0-SNAPSHOT-4"))
	require.NoError(t, err)
	assert.False(t, changed, "same version is not a change")

	saved, err := p.Save()
	require.NoError(t, err)
	assert.False(t, saved, "nothing to save")

	_, err = p.SetVersion(version.MustParse("1.0.0"))
	require.NoError(t, err)
	_, err = p.Save()
	require.NoError(t, err)

	_, err = p.SetVersion(version.MustParse("1.0.1-SNAPSHOT-1"))
	require.NoError(t, err)
	_, err = p.Save()
	require.NoError(t, err)

	undone, err := p.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	v, _ := p.Version()
	assert.Equal(t, "1.0.0", v.String())

	undone, err = p.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	data, err := util.ReadFile(fsys, DescriptorName)
	require.NoError(t, err)
	assert.Equal(t, simplePOM, string(data), "undo restores the original bytes")

	undone, err = p.Undo()
	require.NoError(t, err)
	assert.False(t, undone, "nothing left to undo")
}

func TestUndo_DiscardsUnsavedEdits(t *testing.T) {
	p, fsys := load(t, simplePOM)

	_, err := p.SetVersion(version.MustParse("9"))
	require.NoError(t, err)

	undone, err := p.Undo()
	require.NoError(t, err)
	assert.True(t, undone)

	v, _ := p.Version()
	assert.Equal(t, "1.0.0-SNAPSHOT-4", v.String())
	data, _ := util.ReadFile(fsys, DescriptorName)
	assert.Equal(t, simplePOM, string(data))
}

func TestScope(t *testing.T) {
	root := scope.NewWithValues(nil, map[string]string{"owner": "ops"})
	fsys := newFS(t, map[string]string{DescriptorName: simplePOM})
	p, err := Load(fsys, WithParentScope(root))
	require.NoError(t, err)

	s := p.Scope()
	for name, want := range map[string]string{
		"version":            "1.0.0-SNAPSHOT-4",
		"project.version":    "1.0.0-SNAPSHOT-4",
		"project.artifactId": "app",
		"project.groupId":    "dev.example",
		"java.version":       "21",
		"owner":              "ops",
	} {
		got, ok := s.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, err = p.SetVersion(version.MustParse("1.0.0"))
	require.NoError(t, err)
	got, _ := s.Get("project.version")
	assert.Equal(t, "1.0.0", got, "version is resolved live")

	err = s.Declare("version", "2")
	assert.True(t, errors.Is(err, oerrors.ErrUnsupported))
}

func TestScope_VersionProperty(t *testing.T) {
	fsys := newFS(t, map[string]string{DescriptorName: revisionPOM})
	p, err := Load(fsys)
	require.NoError(t, err)

	s := p.Scope()
	got, ok := s.Get("revision")
	require.True(t, ok)
	assert.Equal(t, "2.1.3-SNAPSHOT-1", got)

	_, err = p.SetVersion(version.MustParse("2.1.3"))
	require.NoError(t, err)

	for _, name := range []string{"revision", "version", "project.version"} {
		got, ok := s.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, "2.1.3", got, name)
	}
}
