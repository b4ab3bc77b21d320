package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/release/internal/errors"
)

func testScope() Scope {
	root := NewWithValues(nil, map[string]string{
		"project.version": "1.2.3",
		"repo":            "/srv/repo",
	})
	return NewWithValues(root, map[string]string{"name": "app"})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		policy Policy
		want   string
	}{
		{name: "no placeholders", expr: "mvn test", want: "mvn test"},
		{name: "single", expr: "${project.version}", want: "1.2.3"},
		{name: "mixed", expr: "cp ${name}-${project.version}.jar ${repo}/", want: "cp app-1.2.3.jar /srv/repo/"},
		{name: "whitespace in braces", expr: "${ name }", want: "app"},
		{name: "dollar without brace", expr: "cost $5 ${name}", want: "cost $5 app"},
		{name: "keep unresolved", expr: "${name}:${later}", policy: KeepUnresolved, want: "app:${later}"},
		{name: "empty unresolved", expr: "[${later}]", policy: EmptyUnresolved, want: "[]"},
		{name: "values are not re-expanded", expr: "${name}", want: "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(testScope(), tt.expr, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_ValuesAreNotReexpanded(t *testing.T) {
	s := NewWithValues(nil, map[string]string{"a": "${b}", "b": "x"})
	got, err := Evaluate(s, "${a}", FailOnUnresolved)
	require.NoError(t, err)
	assert.Equal(t, "${b}", got)
}

func TestEvaluate_FailOnUnresolved(t *testing.T) {
	_, err := Evaluate(testScope(), "deploy ${target}", FailOnUnresolved)
	require.Error(t, err)

	var undeclared *UndeclaredError
	require.True(t, errors.As(err, &undeclared))
	assert.Equal(t, "target", undeclared.Name)
	assert.True(t, errors.Is(err, oerrors.ErrUndeclared))
	assert.Contains(t, err.Error(), `"target"`)
}

func TestEvaluate_Malformed(t *testing.T) {
	for _, expr := range []string{"${name", "a ${} b", "${   }"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(testScope(), expr, KeepUnresolved)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrFormat))
			assert.Contains(t, err.Error(), expr)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a} ${b} ${a} ${} ${c")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Nil(t, Placeholders("plain"))
}
