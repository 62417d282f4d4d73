package sink

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path   string
		errMsg string
	}{
		{path: "list.rs"},
		{path: "generated/ast/expr.rs"},
		{path: "", errMsg: "empty"},
		{path: "/abs/list.rs", errMsg: "absolute paths not allowed"},
		{path: "C:/list.rs", errMsg: "absolute paths not allowed"},
		{path: "a/../list.rs", errMsg: "path traversal not allowed"},
		{path: "..", errMsg: "path traversal not allowed"},
		{path: "./list.rs", errMsg: "not clean"},
		{path: "a//list.rs", errMsg: "not clean"},
		{path: "a/", errMsg: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()

	content := []byte("impl List {}\n")
	require.NoError(t, s.WriteFile(ctx, "list.rs", content))
	content[0] = 'X'
	assert.Equal(t, "impl List {}\n", string(s.Get("list.rs")), "sink keeps its own copy")

	got, err := s.ReadFile(ctx, "list.rs")
	require.NoError(t, err)
	got[0] = 'Y'
	assert.Equal(t, "impl List {}\n", string(s.Get("list.rs")), "ReadFile returns a copy")

	_, err = s.ReadFile(ctx, "missing.rs")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, s.Get("missing.rs"))

	require.NoError(t, s.WriteFile(ctx, "list.rs", []byte("v2")))
	assert.Equal(t, map[string][]byte{"list.rs": []byte("v2")}, s.Files())

	assert.Error(t, s.WriteFile(ctx, "../list.rs", nil))

	s.Reset()
	assert.Empty(t, s.Files())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.WriteFile(cancelled, "list.rs", nil), context.Canceled)
}

func TestMemorySink_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.WriteFile(ctx, fmt.Sprintf("f%02d.rs", i), []byte{byte(i)}))
		}()
	}
	wg.Wait()
	files := s.Files()
	require.Len(t, files, 50)
	assert.Equal(t, []byte{7}, files["f07.rs"])
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(ctx, "ast/expr.rs", []byte("one")))
	data, err := os.ReadFile(filepath.Join(root, "ast", "expr.rs"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	info, err := os.Stat(filepath.Join(root, "ast", "expr.rs"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, s.WriteFile(ctx, "ast/expr.rs", []byte("two")))
	got, err := s.ReadFile(ctx, "ast/expr.rs")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "ast"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")

	_, err = s.ReadFile(ctx, "missing.rs")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFilesystemSink_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := &FilesystemSink{Root: root, Mode: 0o600}

	require.NoError(t, s.WriteFile(ctx, "id.rs", []byte("first")))
	err := s.WriteFile(ctx, "id.rs", []byte("second"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(filepath.Join(root, "id.rs"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	info, err := os.Stat(filepath.Join(root, "id.rs"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilesystemSink_Concurrent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.WriteFile(ctx, "shared.rs", []byte(fmt.Sprintf("writer %d", i))))
		}()
	}
	wg.Wait()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shared.rs", entries[0].Name())
}

func TestFilesystemSink_PathSecurity(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(filepath.Join(root, "out"))
	for _, p := range []string{"../escape.rs", "/etc/passwd", "a/../../b.rs", ""} {
		assert.Error(t, s.WriteFile(ctx, p, []byte("x")), p)
	}
	_, err := os.Stat(filepath.Join(root, "escape.rs"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFilesystemSink_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := t.TempDir()
	s := NewFilesystemSink(root)
	assert.ErrorIs(t, s.WriteFile(ctx, "list.rs", []byte("x")), context.Canceled)
	_, err := os.Stat(filepath.Join(root, "list.rs"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()
	require.NoError(t, s.WriteFile(ctx, "fresh.rs", []byte("same\n")))
	require.NoError(t, s.WriteFile(ctx, "stale.rs", []byte("a\nold\nc\n")))

	drifts, err := Compare(ctx, s, map[string][]byte{
		"stale.rs":   []byte("a\nnew\nc\n"),
		"fresh.rs":   []byte("same\n"),
		"missing.rs": []byte("x\n"),
	})
	require.NoError(t, err)
	require.Len(t, drifts, 2)

	assert.Equal(t, Drift{Path: "missing.rs", Status: DriftMissing}, drifts[0])

	assert.Equal(t, "stale.rs", drifts[1].Path)
	assert.Equal(t, DriftStale, drifts[1].Status)
	assert.Contains(t, drifts[1].Diff, "--- stale.rs (current)")
	assert.Contains(t, drifts[1].Diff, "+++ stale.rs (generated)")
	assert.Contains(t, drifts[1].Diff, "-old\n")
	assert.Contains(t, drifts[1].Diff, "+new\n")
}

func TestCompare_UpToDate(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)
	want := map[string][]byte{"a.rs": []byte("a"), "b/c.rs": []byte("c")}
	for p, c := range want {
		require.NoError(t, s.WriteFile(ctx, p, c))
	}
	drifts, err := Compare(ctx, s, want)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
