package cmd

import (
	"bytes"
	"testing"

	"github.com/opmodel/release/internal/config"
	"github.com/opmodel/release/internal/testutil"
)

// execute runs the root command with args and returns its error.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

// pom renders the descriptor of org.example:app at v.
func pom(v string) string {
	return testutil.POM("org.example", "app", v)
}

// writeProject creates a project directory holding descriptor and, when cfg
// is not empty, a project config file.
func writeProject(t *testing.T, descriptor, cfg string) string {
	t.Helper()

	var files map[string]string
	if cfg != "" {
		files = map[string]string{config.ProjectConfigName: cfg}
	}
	return testutil.ProjectDir(t, descriptor, files)
}
