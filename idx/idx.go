// Package idx is the Go counterpart of the generated Rust index modules:
// typed ordinal handles, a monotonic generator and a handle-indexed vector.
//
// The domain type parameter D only separates handle kinds at compile time,
// so an ID[funDomain] cannot be passed where an ID[varDomain] is expected.
//
// Overflow is fatal by default. Incr and FreshID panic with a
// counter_overflow error when the counter would wrap, and encoding a handle
// whose ordinal exceeds the 32-bit bound panics with an assertion failure.
// The Try variants return the error instead.
package idx

import (
	"encoding/json"
	"math"
	"strconv"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/broady/derivegen/diag"
)

// ID is an opaque ordinal handle of domain D.
type ID[D any] struct {
	index uint64
}

// New returns the handle with the given ordinal.
func New[D any](index uint64) ID[D] {
	return ID[D]{index: index}
}

// Zero returns the handle with ordinal 0.
func Zero[D any]() ID[D] { return ID[D]{} }

// One returns the handle with ordinal 1.
func One[D any]() ID[D] { return ID[D]{index: 1} }

// Index returns the ordinal.
func (id ID[D]) Index() uint64 { return id.index }

// IsZero reports whether id is the zero handle.
func (id ID[D]) IsZero() bool { return id.index == 0 }

// Less orders handles by ordinal.
func (id ID[D]) Less(other ID[D]) bool { return id.index < other.index }

// Incr advances the ordinal by one. It panics on overflow.
func (id *ID[D]) Incr() {
	if err := id.TryIncr(); err != nil {
		panic(err)
	}
}

// TryIncr advances the ordinal by one, or returns a counter_overflow error
// and leaves id unchanged.
func (id *ID[D]) TryIncr() error {
	next, err := checkedIncr(id.index)
	if err != nil {
		return err
	}
	id.index = next
	return nil
}

func (id ID[D]) String() string {
	return strconv.FormatUint(id.index, 10)
}

// Uint32 returns the ordinal as a uint32, or a serialization_range_exceeded
// error if it does not fit.
func (id ID[D]) Uint32() (uint32, error) {
	v, err := safecast.Conv[uint32](id.index)
	if err != nil {
		return 0, diag.Newf(diag.CodeSerializationRangeExceeded, "idx.ID",
			"ordinal %d exceeds the 32-bit encoding bound", id.index)
	}
	return v, nil
}

// mustUint32 is Uint32 for encoders: an out-of-range ordinal is an
// assertion failure.
func (id ID[D]) mustUint32() uint32 {
	v, err := id.Uint32()
	if err != nil {
		panic(errors.WithAssertionFailure(err))
	}
	return v
}

// MarshalJSON encodes the ordinal as a JSON number.
// It panics if the ordinal exceeds math.MaxUint32.
func (id ID[D]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.mustUint32())
}

// UnmarshalJSON decodes a 32-bit JSON number.
func (id *ID[D]) UnmarshalJSON(data []byte) error {
	var v uint32
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "decode handle")
	}
	id.index = uint64(v)
	return nil
}

// EncodeMsgpack encodes the ordinal as a msgpack uint32.
// It panics if the ordinal exceeds math.MaxUint32.
func (id ID[D]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeUint32(id.mustUint32())
}

// DecodeMsgpack decodes a msgpack uint32.
func (id *ID[D]) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeUint32()
	if err != nil {
		return errors.Wrap(err, "decode handle")
	}
	id.index = uint64(v)
	return nil
}

var (
	_ json.Marshaler        = ID[struct{}]{}
	_ json.Unmarshaler      = (*ID[struct{}])(nil)
	_ msgpack.CustomEncoder = ID[struct{}]{}
	_ msgpack.CustomDecoder = (*ID[struct{}])(nil)
)

// Generator mints successive handles. The zero value starts at ordinal 0.
// A Generator is not safe for concurrent use; callers that share one must
// serialize access.
type Generator[D any] struct {
	counter uint64
}

// NewGenerator returns a generator starting at ordinal 0.
func NewGenerator[D any]() *Generator[D] {
	return &Generator[D]{}
}

// FreshID returns a handle carrying the current counter and advances the
// counter. It panics on overflow.
func (g *Generator[D]) FreshID() ID[D] {
	id, err := g.TryFreshID()
	if err != nil {
		panic(err)
	}
	return id
}

// TryFreshID is FreshID returning counter_overflow instead of panicking.
// On error the counter is unchanged.
func (g *Generator[D]) TryFreshID() (ID[D], error) {
	next, err := checkedIncr(g.counter)
	if err != nil {
		return ID[D]{}, err
	}
	id := ID[D]{index: g.counter}
	g.counter = next
	return id, nil
}

// Peek returns the handle the next FreshID call will return.
func (g *Generator[D]) Peek() ID[D] {
	return ID[D]{index: g.counter}
}

func checkedIncr(v uint64) (uint64, error) {
	if v == math.MaxUint64 {
		return 0, diag.Newf(diag.CodeCounterOverflow, "idx", "ordinal %d cannot be incremented", v)
	}
	return v + 1, nil
}
