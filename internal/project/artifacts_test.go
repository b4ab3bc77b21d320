package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifacts(t *testing.T) {
	fsys := newFS(t, map[string]string{
		DescriptorName:                          simplePOM,
		"target/app-1.0.0-SNAPSHOT-4.jar":         "jar",
		"target/app-1.0.0-SNAPSHOT-4-sources.jar": "src",
		"target/app-1.0.0-SNAPSHOT-4-javadoc.jar": "doc",
		"target/other-1.0.jar":                    "ignored",
		"target/classes/Main.class":               "ignored",
	})
	p, err := Load(fsys)
	require.NoError(t, err)

	descriptor, err := p.Artifacts(ArtifactDescriptor)
	require.NoError(t, err)
	require.Len(t, descriptor, 1)
	assert.Equal(t, "dev/example/app/1.0.0-SNAPSHOT-4/app-1.0.0-SNAPSHOT-4.pom", descriptor[0].RepositoryPath())
	assert.Equal(t, DescriptorName, descriptor[0].Path)

	primary, err := p.Artifacts(ArtifactPrimary)
	require.NoError(t, err)
	require.Len(t, primary, 1)
	assert.Equal(t, "target/app-1.0.0-SNAPSHOT-4.jar", primary[0].Path)

	attached, err := p.Artifacts(ArtifactAttached)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	assert.Equal(t, "javadoc", attached[0].Classifier)
	assert.Equal(t, "sources", attached[1].Classifier)
	assert.Equal(t, "app-1.0.0-SNAPSHOT-4-sources.jar", attached[1].FileName())

	all, err := AllArtifacts(p)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestArtifacts_NotBuilt(t *testing.T) {
	p, _ := load(t, revisionPOM)

	primary, err := p.Artifacts(ArtifactPrimary)
	require.NoError(t, err)
	assert.Empty(t, primary)

	attached, err := p.Artifacts(ArtifactAttached)
	require.NoError(t, err)
	assert.Empty(t, attached)
	assert.Equal(t, "jar", p.primaryExtension(), "bundle packaging ships a jar")
}

func TestArtifacts_PomPackaging(t *testing.T) {
	p, _ := load(t, `<project><groupId>g</groupId><artifactId>bom</artifactId><version>1</version><packaging>pom</packaging></project>`)

	primary, err := p.Artifacts(ArtifactPrimary)
	require.NoError(t, err)
	assert.Empty(t, primary)
}

func TestArtifactKind_String(t *testing.T) {
	assert.Equal(t, "attached", ArtifactAttached.String())
	assert.Equal(t, "unknown", ArtifactKind(9).String())
}
