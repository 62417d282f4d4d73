package idx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/broady/derivegen/diag"
)

type funDomain struct{}

type FunID = ID[funDomain]

func TestGenerator_FreshIDSequence(t *testing.T) {
	g := NewGenerator[funDomain]()
	a, b, c := g.FreshID(), g.FreshID(), g.FreshID()

	assert.Equal(t, uint64(0), a.Index())
	assert.Equal(t, uint64(1), b.Index())
	assert.Equal(t, uint64(2), c.Index())
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.Equal(t, Zero[funDomain](), a)
	assert.Equal(t, One[funDomain](), b)
	assert.Equal(t, uint64(3), g.Peek().Index())
}

func TestGenerator_ZeroValue(t *testing.T) {
	var g Generator[funDomain]
	assert.True(t, g.FreshID().IsZero())
}

func TestID_Incr(t *testing.T) {
	id := Zero[funDomain]()
	id.Incr()
	assert.Equal(t, One[funDomain](), id)
	assert.Equal(t, "1", id.String())
}

func TestID_IncrOverflow(t *testing.T) {
	id := New[funDomain](math.MaxUint64)
	err := id.TryIncr()
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.CodeCounterOverflow))
	assert.Equal(t, uint64(math.MaxUint64), id.Index(), "failed increment must not change the ordinal")

	assert.Panics(t, func() { id.Incr() })
}

func TestGenerator_Overflow(t *testing.T) {
	g := &Generator[funDomain]{counter: math.MaxUint64}
	_, err := g.TryFreshID()
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.CodeCounterOverflow))
	assert.Panics(t, func() { g.FreshID() })
}

func TestID_Uint32Bound(t *testing.T) {
	v, err := New[funDomain](math.MaxUint32).Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v)

	_, err = New[funDomain](math.MaxUint32 + 1).Uint32()
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.CodeSerializationRangeExceeded))
}

func TestID_JSON(t *testing.T) {
	data, err := json.Marshal(New[funDomain](42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	var back FunID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, uint64(42), back.Index())

	data, err = json.Marshal(New[funDomain](math.MaxUint32))
	require.NoError(t, err)
	assert.Equal(t, "4294967295", string(data))
}

func TestID_JSONOutOfRangePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.HasAssertionFailure(err))
		assert.True(t, diag.Is(err, diag.CodeSerializationRangeExceeded))
	}()
	_, _ = json.Marshal(New[funDomain](math.MaxUint32 + 1))
}

func TestID_Msgpack(t *testing.T) {
	data, err := msgpack.Marshal(New[funDomain](7))
	require.NoError(t, err)

	var back FunID
	require.NoError(t, msgpack.Unmarshal(data, &back))
	assert.Equal(t, uint64(7), back.Index())

	assert.Panics(t, func() { _, _ = msgpack.Marshal(New[funDomain](math.MaxUint32 + 1)) })
}

func TestParseOverflowPolicy(t *testing.T) {
	p, err := ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParseOverflowPolicy("error")
	require.NoError(t, err)
	assert.Equal(t, PolicyError, p)

	_, err = ParseOverflowPolicy("wrap")
	assert.True(t, diag.Is(err, diag.CodeInvalidDescriptor))
}

func TestVector(t *testing.T) {
	var vec Vector[funDomain, string]
	a := vec.Push("a")
	b := vec.Push("b")
	assert.Equal(t, uint64(0), a.Index())
	assert.Equal(t, uint64(1), b.Index())
	assert.Equal(t, 2, vec.Len())

	got, ok := vec.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", got)

	_, ok = vec.Get(New[funDomain](5))
	assert.False(t, ok)

	assert.True(t, vec.Set(a, "z"))
	assert.False(t, vec.Set(New[funDomain](9), "x"))

	var ids []uint64
	var vals []string
	for id, v := range vec.All() {
		ids = append(ids, id.Index())
		vals = append(vals, v)
	}
	assert.Equal(t, []uint64{0, 1}, ids)
	assert.Equal(t, []string{"z", "b"}, vals)
	assert.Equal(t, []string{"z", "b"}, vec.Values())
}
