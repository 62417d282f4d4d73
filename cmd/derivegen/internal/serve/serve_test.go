package serve

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/broady/derivegen"
	"github.com/broady/derivegen/internal/testutil"
	"github.com/broady/derivegen/rust"
)

func newServer(t *testing.T, cfg derivegen.Config) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(cfg, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func decodeError(t *testing.T, resp *http.Response) *Error {
	t.Helper()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var b bytes.Buffer
	_, err := b.ReadFrom(resp.Body)
	require.NoError(t, err)
	return b.String()
}

func TestIndexType(t *testing.T) {
	srv := newServer(t, derivegen.Config{IDVectorPath: "crate::id_vector"})

	resp, err := http.Get(srv.URL + "/index-type?name=FunId&policy=error&unknown=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	want, err := rust.GenerateIndexType("FunId", rust.IndexTypeOptions{Policy: "error", IDVectorPath: "crate::id_vector"})
	require.NoError(t, err)
	assert.Equal(t, want, readBody(t, resp))
}

func TestIndexType_Errors(t *testing.T) {
	srv := newServer(t, derivegen.Config{})
	tests := []struct {
		name   string
		query  string
		status int
		code   string
		msg    string
	}{
		{name: "missing name", query: "", status: http.StatusUnprocessableEntity, code: "invalid_descriptor", msg: "name: required"},
		{name: "bad policy", query: "name=FunId&policy=retry", status: http.StatusUnprocessableEntity, code: "invalid_descriptor", msg: "policy: must be one of"},
		{name: "two identifiers", query: "name=FunId+VarId", status: http.StatusUnprocessableEntity, code: "malformed_invocation"},
		{name: "keyword", query: "name=fn", status: http.StatusUnprocessableEntity, code: "malformed_invocation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/index-type?" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.Contains(t, e.Message, tt.msg)
		})
	}
}

func TestDerive(t *testing.T) {
	srv := newServer(t, derivegen.Config{Header: "// preview"})
	data, err := os.ReadFile(testutil.RepoPath("loader", "testdata", "list.yaml"))
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/derive", "application/yaml", strings.NewReader(string(data)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.True(t, strings.HasPrefix(body, "// preview\n\nimpl<T> List<T> {\n"), body)
	assert.Contains(t, body, "pub mod FunId {")
}

func TestDerive_Errors(t *testing.T) {
	srv := newServer(t, derivegen.Config{})
	tests := []struct {
		name        string
		contentType string
		body        string
		code        string
		msg         string
	}{
		{
			name:        "struct declaration",
			contentType: "application/json",
			body:        `{"declarations": [{"name": "Point", "kind": "struct", "derives": ["VariantName"]}]}`,
			code:        "wrong_declaration_kind",
			msg:         "Point",
		},
		{
			name:        "unsupported field type",
			contentType: "application/json; charset=utf-8",
			body:        `{"declarations": [{"name": "E", "derives": ["VariantName"], "variants": [{"name": "A", "fields": [{"type": {"kind": "trait_object", "text": "dyn Fn()"}}]}]}]}`,
			code:        "unsupported_type_form",
			msg:         "TraitObject",
		},
		{
			name:        "unknown field",
			contentType: "application/json",
			body:        `{"decls": []}`,
			code:        "invalid_descriptor",
			msg:         "decode json",
		},
		{
			name:        "content type",
			contentType: "text/html",
			body:        `<p>`,
			code:        "invalid_descriptor",
			msg:         "unsupported content type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/derive", tt.contentType, strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.Contains(t, e.Message, tt.msg)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t, derivegen.Config{})
	resp, err := http.Get(srv.URL + "/derive")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
