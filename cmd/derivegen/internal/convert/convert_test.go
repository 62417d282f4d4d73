package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/derivegen/internal/testutil"
	"github.com/broady/derivegen/loader"
)

var testdata = testutil.RepoPath("loader", "testdata")

func TestRun_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	mp := filepath.Join(dir, "list.msgpack")
	js := filepath.Join(dir, "list.json")

	require.NoError(t, (&Cmd{Input: filepath.Join(testdata, "list.yaml"), Output: mp}).Run())
	require.NoError(t, (&Cmd{Input: mp, Output: js}).Run())

	want, err := loader.LoadFile(filepath.Join(testdata, "list.yaml"))
	require.NoError(t, err)
	for _, p := range []string{mp, js} {
		got, err := loader.LoadFile(p)
		require.NoError(t, err, p)
		require.Len(t, got.Declarations, 1)
		assert.Equal(t, want.Declarations[0].Derives, got.Declarations[0].Derives)
		assert.Equal(t, want.Declarations[0].Adt.Variants, got.Declarations[0].Adt.Variants)
		assert.Equal(t, want.IndexTypes[0].Invocation, got.IndexTypes[0].Invocation)
	}
}

func TestRun_NoOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "expr.yaml")
	require.NoError(t, os.WriteFile(out, []byte("keep"), 0o644))

	err := (&Cmd{Input: filepath.Join(testdata, "expr.json"), Output: out}).Run()
	assert.ErrorContains(t, err, "already exists")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	require.NoError(t, (&Cmd{Input: filepath.Join(testdata, "expr.json"), Output: out, Force: true}).Run())
	_, err = loader.LoadFile(out)
	assert.NoError(t, err)
}

func TestRun_UnknownExtension(t *testing.T) {
	err := (&Cmd{Input: filepath.Join(testdata, "list.yaml"), Output: filepath.Join(t.TempDir(), "list.toml")}).Run()
	assert.ErrorContains(t, err, "unknown descriptor extension")
}
