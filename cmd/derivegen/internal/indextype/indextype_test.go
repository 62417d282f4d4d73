package indextype

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/internal/testutil"
)

func golden(t *testing.T, name string) string {
	return testutil.Section(t, testutil.RepoPath("rust", "testdata", "index_type.txtar"), name)
}

func TestRun_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fun_id.rs")
	c := &Cmd{Invocation: []string{"FunId"}, Policy: "error", Out: out}
	require.NoError(t, c.Run(&cli.Globals{NoProject: true}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "error.rs"), strings.TrimSuffix(string(data), "\n"))
}

func TestRun_VectorPath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fun_id.rs")
	c := &Cmd{Invocation: []string{"FunId"}, IDVectorPath: "crate::id_vector", Out: out}
	require.NoError(t, c.Run(&cli.Globals{NoProject: true}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "abort.rs"), strings.TrimSuffix(string(data), "\n"))
}

func TestRun_Malformed(t *testing.T) {
	for _, inv := range [][]string{{"FunId", "VarId"}, {"fn"}, {"\"FunId\""}} {
		err := (&Cmd{Invocation: inv}).Run(&cli.Globals{NoProject: true})
		require.Error(t, err, inv)
		assert.True(t, diag.Is(err, diag.CodeMalformedInvocation), "%v: %v", inv, err)
	}
}

func TestRun_BadPolicy(t *testing.T) {
	err := (&Cmd{Invocation: []string{"FunId"}, Policy: "retry"}).Run(&cli.Globals{NoProject: true})
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.CodeInvalidDescriptor))
}
