package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/release/internal/errors"
)

func TestMapScope_ParentDelegation(t *testing.T) {
	root := New(nil)
	require.NoError(t, root.Declare("X", "v"))

	child := New(root)
	grandchild := New(child)

	got, ok := child.Get("X")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	got, ok = grandchild.Get("X")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = grandchild.Get("Y")
	assert.False(t, ok, "a name bound nowhere in the chain is undeclared")
}

func TestMapScope_DeclareIsLocal(t *testing.T) {
	root := NewWithValues(nil, map[string]string{"X": "root"})
	child := New(root)

	require.NoError(t, child.Declare("X", "child"))

	got, _ := child.Get("X")
	assert.Equal(t, "child", got, "local binding shadows the parent")

	got, _ = root.Get("X")
	assert.Equal(t, "root", got, "declare must not touch the parent")
	assert.Equal(t, []string{"X"}, root.Names())
}

func TestMapScope_DeclareErrors(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Declare("a", "1"))

	err := s.Declare("a", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrArgument))

	err = s.DeclarePlaceholder("a")
	require.Error(t, err)

	err = s.Declare("", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrArgument))
}

func TestMapScope_Placeholder(t *testing.T) {
	root := NewWithValues(nil, map[string]string{"release.version": "from root"})
	s := New(root)
	require.NoError(t, s.DeclarePlaceholder("release.version"))

	_, ok := s.Get("release.version")
	assert.False(t, ok, "unbound placeholder shadows the parent")

	require.NoError(t, s.Set("release.version", "1.2.3"))
	got, ok := s.Get("release.version")
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", got)
}

func TestMapScope_Set(t *testing.T) {
	root := NewWithValues(nil, map[string]string{"X": "old"})
	child := New(root)

	require.NoError(t, child.Set("X", "new"))
	got, _ := root.Get("X")
	assert.Equal(t, "new", got, "set rebinds the nearest declaring scope")
	assert.Empty(t, child.Names())

	err := child.Set("missing", "v")
	require.Error(t, err)

	var undeclared *UndeclaredError
	require.True(t, errors.As(err, &undeclared))
	assert.Equal(t, "missing", undeclared.Name)
	assert.True(t, errors.Is(err, oerrors.ErrUndeclared))
}

func TestMapScope_Parent(t *testing.T) {
	root := New(nil)
	child := New(root)
	assert.Nil(t, root.Parent())
	assert.Same(t, root, child.Parent())
}

func TestReadOnly(t *testing.T) {
	live := map[string]string{"version": "1.0.0"}
	root := NewWithValues(nil, map[string]string{"owner": "ops"})
	ro := NewReadOnly("project", SourceFunc(func(name string) (string, bool) {
		v, ok := live[name]
		return v, ok
	}), root)

	got, ok := ro.Get("version")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", got)

	live["version"] = "1.0.1"
	got, _ = ro.Get("version")
	assert.Equal(t, "1.0.1", got, "lookups reflect the live source")

	got, ok = ro.Get("owner")
	assert.True(t, ok)
	assert.Equal(t, "ops", got)

	for name, err := range map[string]error{
		"declare":     ro.Declare("x", "y"),
		"placeholder": ro.DeclarePlaceholder("x"),
		"set":         ro.Set("version", "2"),
	} {
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, oerrors.ErrUnsupported), name)
		assert.Contains(t, err.Error(), "read-only project scope", name)
	}
	assert.Same(t, root, ro.Parent())
}

func TestMapScope_SetThroughReadOnlyParent(t *testing.T) {
	ro := NewReadOnly("project", SourceFunc(func(string) (string, bool) { return "", false }), nil)
	child := New(ro)

	err := child.Set("anything", "v")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrUnsupported))
}
