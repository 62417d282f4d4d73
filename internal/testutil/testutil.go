// Package testutil provides helpers shared by derivegen tests: golden
// archives and paths to repository test data.
package testutil

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// root is the module root, two directories above this file.
var root = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}()

// RepoPath returns a path below the module root.
func RepoPath(elem ...string) string {
	return filepath.Join(append([]string{root}, elem...)...)
}

// Sections parses a txtar archive and returns each file's content keyed by
// name. A single trailing newline, added by the archive format, is removed.
func Sections(t testing.TB, path string) map[string]string {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("parse golden archive: %v", err)
	}
	out := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		out[f.Name] = strings.TrimSuffix(string(f.Data), "\n")
	}
	return out
}

// Section returns one named section of a txtar archive.
func Section(t testing.TB, path, name string) string {
	t.Helper()
	sections := Sections(t, path)
	s, ok := sections[name]
	if !ok {
		t.Fatalf("%s has no section %q", path, name)
	}
	return s
}
