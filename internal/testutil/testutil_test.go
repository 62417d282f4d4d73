package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoPath(t *testing.T) {
	if _, err := os.Stat(RepoPath("go.mod")); err != nil {
		t.Fatalf("RepoPath(go.mod): %v", err)
	}
}

func TestSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.txtar")
	data := "comment\n-- a.rs --\nfn a() {}\n-- b.rs --\nfn b() {}\n\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got := Sections(t, path)
	if len(got) != 2 {
		t.Fatalf("got %d sections, want 2", len(got))
	}
	if got["a.rs"] != "fn a() {}" {
		t.Errorf("a.rs = %q", got["a.rs"])
	}
	if got["b.rs"] != "fn b() {}\n" {
		t.Errorf("b.rs = %q", got["b.rs"])
	}
	if s := Section(t, path, "a.rs"); s != "fn a() {}" {
		t.Errorf("Section(a.rs) = %q", s)
	}
}
