// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const pomTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>%s</groupId>
  <artifactId>%s</artifactId>
  <version>%s</version>
</project>
`

// POM renders a minimal project descriptor.
func POM(groupID, artifactID, version string) string {
	return fmt.Sprintf(pomTemplate, groupID, artifactID, version)
}

// Isolate points HOME at a fresh temporary directory and clears the
// RELEASE_CONFIG override. It returns the new home.
func Isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RELEASE_CONFIG", "")
	return home
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// ProjectDir creates a temporary project directory holding pom.xml and,
// when files is not nil, each named file with its content.
func ProjectDir(t *testing.T, pom string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "pom.xml", pom)
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}
