// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package vector implements the columnar vector codec: it reads and writes
// the engine's fixed binary vector layouts (validity bitmaps, fixed-width
// scalars, string_t cells, decimals, enums and nested list, struct, map,
// array and union vectors) as the Go values of package value.
//
// A Vector is a view (shared state, row offset, length) over an engine
// RawVector. Reads decode directly from the engine's buffers. Writes to
// fixed-width kinds go to the buffer immediately and their validity is
// committed by Flush; writes to variable-length and nested kinds are staged
// per row and committed by Flush, which is the only place that calls the
// engine's string heap or resizes list children. Flush is idempotent.
//
// Vectors created with Borrow are read-only until MakeWritable is called on
// them or on any vector sharing their state. Vectors created with Create are
// writable.
//
// Vectors are not safe for concurrent use. Views created with Slice alias
// their source: writes through either are visible through both.
package vector

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
)

// Vector is one typed column of rows.
//
// The set of implementations is closed: *Fixed[T], *Strings, *Decimal, *Enum,
// *List, *Struct, *Map, *Array and *Union.
type Vector interface {
	// Type returns the vector's logical type.
	Type() *logicaltype.T
	// Len returns the number of rows in the vector.
	Len() int
	// Valid returns true if row i is non-null. It panics if i is out of range.
	Valid(i int) bool
	// Get decodes row i. A NULL row decodes to nil.
	Get(i int) (any, error)
	// Set encodes v into row i. A nil v sets the row to NULL. The value is
	// fully validated before anything is written; on error the row is
	// unchanged.
	Set(i int, v any) error
	// Slice returns a view of rows [offset, offset+n) sharing all state with
	// the receiver.
	Slice(offset, n int) (Vector, error)
	// Flush commits staged writes to the engine's buffers. Flushing a slice
	// commits the whole underlying vector.
	Flush() error

	core() *common
	// normalize converts a non-nil Go value into the canonical decoded form
	// for the vector's type, or returns an error. It must not mutate any
	// state.
	normalize(v any) (any, error)
}

// tree is the state shared by a vector, its slices and its descendants.
type tree struct {
	env      *Env
	writable bool
}

// common holds the fields shared by every vector implementation.
type common struct {
	tree     *tree
	typ      *logicaltype.T
	raw      RawVector
	offset   int
	n        int
	validity Validity
}

func makeCommon(t *tree, raw RawVector, typ *logicaltype.T, n int) common {
	return common{tree: t, typ: typ, raw: raw, n: n, validity: makeValidity(raw, n)}
}

func (c *common) core() *common { return c }

// Type implements Vector.
func (c *common) Type() *logicaltype.T { return c.typ }

// Len implements Vector.
func (c *common) Len() int { return c.n }

// Valid implements Vector.
func (c *common) Valid(i int) bool {
	if i < 0 || i >= c.n {
		panic(errors.AssertionFailedf("row %d out of range [0, %d)", i, c.n))
	}
	return c.validity.Valid(i)
}

// Validity returns the vector's validity view.
func (c *common) Validity() Validity { return c.validity }

// Writable returns true if Set may be called.
func (c *common) Writable() bool { return c.tree.writable }

func (c *common) checkRow(i int) error {
	return base.CheckRow(i, c.n)
}

func (c *common) checkSet(i int) error {
	if !c.tree.writable {
		return errors.Mark(errors.Newf("cannot set row %d of borrowed %s vector", i, c.typ), base.ErrReadOnly)
	}
	return c.checkRow(i)
}

// sliced returns a copy of c viewing rows [offset, offset+n).
func (c *common) sliced(offset, n int) (common, error) {
	if offset < 0 || n < 0 || offset+n > c.n {
		return common{}, base.OutOfRangef("slice [%d, %d) out of range [0, %d)", offset, offset+n, c.n)
	}
	s := *c
	s.offset = c.offset + offset
	s.n = n
	s.validity = c.validity.Slice(offset, n)
	return s, nil
}

// cell returns the bytes of the cell of row i, which is relative to the view.
func (c *common) cell(i, stride int) ([]byte, error) {
	row := c.offset + i
	data := c.raw.Data()
	end := (row + 1) * stride
	if end > len(data) {
		return nil, base.CorruptLayoutf("%s vector data is %d bytes, need %d for row %d",
			c.typ, len(data), end, row)
	}
	return data[row*stride : end : end], nil
}

// Create returns a writable vector of n rows over raw.
func Create(env *Env, raw RawVector, n int) (Vector, error) {
	return create(&tree{env: env, writable: true}, raw, raw.Type(), n)
}

// Borrow returns a read-only vector of n rows over raw, for decoding a chunk
// produced by the engine.
func Borrow(env *Env, raw RawVector, n int) (Vector, error) {
	return create(&tree{env: env}, raw, raw.Type(), n)
}

// MakeWritable allows Set on v, its slices and its children.
func MakeWritable(v Vector) {
	v.core().tree.writable = true
}

// create builds the codec for typ. Every kind is listed so that adding a kind
// fails here rather than silently decoding garbage.
func create(t *tree, raw RawVector, typ *logicaltype.T, n int) (Vector, error) {
	switch typ.Kind() {
	case logicaltype.KindBoolean:
		return newFixed(t, raw, typ, n, boolCodec(t.env.boolWidth)), nil
	case logicaltype.KindTinyInt:
		return newFixed(t, raw, typ, n, intCodec[int8](1)), nil
	case logicaltype.KindSmallInt:
		return newFixed(t, raw, typ, n, intCodec[int16](2)), nil
	case logicaltype.KindInteger:
		return newFixed(t, raw, typ, n, intCodec[int32](4)), nil
	case logicaltype.KindBigInt:
		return newFixed(t, raw, typ, n, intCodec[int64](8)), nil
	case logicaltype.KindUTinyInt:
		return newFixed(t, raw, typ, n, uintCodec[uint8](1)), nil
	case logicaltype.KindUSmallInt:
		return newFixed(t, raw, typ, n, uintCodec[uint16](2)), nil
	case logicaltype.KindUInteger:
		return newFixed(t, raw, typ, n, uintCodec[uint32](4)), nil
	case logicaltype.KindUBigInt:
		return newFixed(t, raw, typ, n, uintCodec[uint64](8)), nil
	case logicaltype.KindFloat:
		return newFixed(t, raw, typ, n, float32Codec), nil
	case logicaltype.KindDouble:
		return newFixed(t, raw, typ, n, float64Codec), nil
	case logicaltype.KindHugeInt:
		return newFixed(t, raw, typ, n, hugeIntCodec), nil
	case logicaltype.KindUHugeInt:
		return newFixed(t, raw, typ, n, uhugeIntCodec), nil
	case logicaltype.KindUUID:
		return newFixed(t, raw, typ, n, uuidCodec), nil
	case logicaltype.KindDate:
		return newFixed(t, raw, typ, n, dateCodec), nil
	case logicaltype.KindTime:
		return newFixed(t, raw, typ, n, timeCodec), nil
	case logicaltype.KindTimeTZ:
		return newFixed(t, raw, typ, n, timeTZCodec), nil
	case logicaltype.KindTimestamp:
		return newFixed(t, raw, typ, n, timestampCodec), nil
	case logicaltype.KindTimestampTZ:
		return newFixed(t, raw, typ, n, timestampTZCodec), nil
	case logicaltype.KindTimestampS:
		return newFixed(t, raw, typ, n, timestampSCodec), nil
	case logicaltype.KindTimestampMS:
		return newFixed(t, raw, typ, n, timestampMSCodec), nil
	case logicaltype.KindTimestampNS:
		return newFixed(t, raw, typ, n, timestampNSCodec), nil
	case logicaltype.KindInterval:
		return newFixed(t, raw, typ, n, intervalCodec), nil
	case logicaltype.KindVarchar:
		return newStrings(t, raw, typ, n, varcharConv), nil
	case logicaltype.KindBlob:
		return newStrings(t, raw, typ, n, blobConv), nil
	case logicaltype.KindBit:
		return newStrings(t, raw, typ, n, bitConv), nil
	case logicaltype.KindVarInt:
		return newStrings(t, raw, typ, n, varIntConv), nil
	case logicaltype.KindDecimal:
		return wrap[*Decimal](newDecimal(t, raw, typ, n))
	case logicaltype.KindEnum:
		return wrap[*Enum](newEnum(t, raw, typ, n))
	case logicaltype.KindList:
		return wrap[*List](newList(t, raw, typ, n))
	case logicaltype.KindMap:
		return wrap[*Map](newMap(t, raw, typ, n))
	case logicaltype.KindStruct:
		return wrap[*Struct](newStruct(t, raw, typ, n))
	case logicaltype.KindArray:
		return wrap[*Array](newArray(t, raw, typ, n))
	case logicaltype.KindUnion:
		return wrap[*Union](newUnion(t, raw, typ, n))
	case logicaltype.KindAny, logicaltype.KindSQLNull, logicaltype.KindInvalid:
		return nil, base.UnsupportedTypef("cannot materialize a vector of type %s", typ)
	default:
		return nil, base.UnsupportedTypef("unknown type kind %d", typ.Kind())
	}
}

// wrap converts a constructor's result to a Vector without turning a nil
// pointer into a non-nil interface.
func wrap[V Vector](v V, err error) (Vector, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ToArray decodes every row of v.
func ToArray(v Vector) ([]any, error) {
	out := make([]any, v.Len())
	for i := range out {
		var err error
		if out[i], err = v.Get(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetAll encodes vals into rows [0, len(vals)) of v. It stops at the first
// error.
func SetAll(v Vector, vals []any) error {
	if len(vals) > v.Len() {
		return base.OutOfRangef("%d values do not fit in %d rows", len(vals), v.Len())
	}
	for i, val := range vals {
		if err := v.Set(i, val); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
	}
	return nil
}

// Normalize returns the canonical decoded form of val for v's type, the value
// Get returns after Set(i, val), without writing anything.
func Normalize(v Vector, val any) (any, error) {
	if val == nil {
		return nil, nil
	}
	return v.normalize(val)
}
