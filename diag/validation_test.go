package diag

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValidation(t *testing.T) {
	type query struct {
		Name   string `schema:"name" validate:"required"`
		Policy string `schema:"policy" validate:"omitempty,oneof=abort error"`
		Jobs   int    `toml:"jobs" validate:"gte=0"`
	}
	v := NewValidator("toml", "schema")

	err := FromValidation("query", v.Struct(query{Policy: "retry", Jobs: -1}))
	require.Error(t, err)
	assert.True(t, Is(err, CodeInvalidDescriptor))
	assert.Contains(t, err.Error(), "name: required")
	assert.Contains(t, err.Error(), "policy: must be one of: abort error")
	assert.Contains(t, err.Error(), "jobs: must be at least 0")

	assert.NoError(t, v.Struct(query{Name: "FunId"}))

	other := errors.New("boom")
	assert.Equal(t, other, FromValidation("query", other))
	assert.NoError(t, FromValidation("query", nil))
}
