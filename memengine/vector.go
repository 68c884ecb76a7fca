// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/vector"
)

// Vector is an engine vector held in Go memory. It implements
// vector.RawVector.
type Vector struct {
	e        *Engine
	typ      *logicaltype.T
	stride   int
	n        int
	data     []byte
	validity []uint64

	// LIST and MAP.
	listChild *Vector
	listSize  int
	// STRUCT and UNION.
	children []*Vector
	// ARRAY.
	arrayChild *Vector
}

var _ vector.RawVector = (*Vector)(nil)

// Stride returns the width in bytes of one cell of typ in an engine whose
// booleans are boolWidth bytes wide. Kinds without a data region (STRUCT,
// UNION and ARRAY) have stride 0.
func Stride(typ *logicaltype.T, boolWidth int) (int, error) {
	switch typ.Kind() {
	case logicaltype.KindBoolean:
		return boolWidth, nil
	case logicaltype.KindTinyInt, logicaltype.KindUTinyInt:
		return 1, nil
	case logicaltype.KindSmallInt, logicaltype.KindUSmallInt:
		return 2, nil
	case logicaltype.KindInteger, logicaltype.KindUInteger, logicaltype.KindFloat,
		logicaltype.KindDate:
		return 4, nil
	case logicaltype.KindBigInt, logicaltype.KindUBigInt, logicaltype.KindDouble,
		logicaltype.KindTime, logicaltype.KindTimeTZ, logicaltype.KindTimestamp,
		logicaltype.KindTimestampTZ, logicaltype.KindTimestampS, logicaltype.KindTimestampMS,
		logicaltype.KindTimestampNS:
		return 8, nil
	case logicaltype.KindHugeInt, logicaltype.KindUHugeInt, logicaltype.KindUUID,
		logicaltype.KindInterval:
		return 16, nil
	case logicaltype.KindVarchar, logicaltype.KindBlob, logicaltype.KindBit,
		logicaltype.KindVarInt:
		return vector.StringCellSize, nil
	case logicaltype.KindDecimal:
		return vector.DecimalStride(typ.Width())
	case logicaltype.KindEnum:
		return Stride(logicaltype.Must(logicaltype.FromKind(typ.EnumIndexKind())), boolWidth)
	case logicaltype.KindList, logicaltype.KindMap:
		return vector.ListEntrySize, nil
	case logicaltype.KindStruct, logicaltype.KindUnion, logicaltype.KindArray:
		return 0, nil
	default:
		return 0, base.UnsupportedTypef("cannot allocate a vector of type %s", typ)
	}
}

func newVector(e *Engine, typ *logicaltype.T, n int) (*Vector, error) {
	stride, err := Stride(typ, e.opts.BoolWidth)
	if err != nil {
		return nil, err
	}
	v := &Vector{e: e, typ: typ, stride: stride, n: n, data: make([]byte, n*stride)}
	switch typ.Kind() {
	case logicaltype.KindList:
		v.listChild, err = newVector(e, typ.Child(), 0)
	case logicaltype.KindMap:
		v.listChild, err = newVector(e, typ.MapEntryType(), 0)
	case logicaltype.KindStruct:
		v.children, err = newChildren(e, typ, n)
	case logicaltype.KindUnion:
		v.children, err = newChildren(e, typ.UnionStructType(), n)
	case logicaltype.KindArray:
		v.arrayChild, err = newVector(e, typ.Child(), n*typ.Length())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "allocating child of %s", typ)
	}
	return v, nil
}

func newChildren(e *Engine, typ *logicaltype.T, n int) ([]*Vector, error) {
	children := make([]*Vector, typ.EntryCount())
	for k := range children {
		var err error
		if children[k], err = newVector(e, typ.EntryType(k), n); err != nil {
			return nil, err
		}
	}
	return children, nil
}

// Rows returns the number of rows the vector has room for.
func (v *Vector) Rows() int { return v.n }

// Type implements vector.RawVector.
func (v *Vector) Type() *logicaltype.T { return v.typ }

// Data implements vector.RawVector.
func (v *Vector) Data() []byte { return v.data }

// Validity implements vector.RawVector.
func (v *Vector) Validity() []uint64 { return v.validity }

// EnsureValidityWritable implements vector.RawVector.
func (v *Vector) EnsureValidityWritable() []uint64 {
	if v.validity == nil {
		v.validity = make([]uint64, vector.ValidityWords(v.n))
		for i := range v.validity {
			v.validity[i] = ^uint64(0)
		}
	}
	return v.validity
}

// AssignStringElement implements vector.RawVector.
func (v *Vector) AssignStringElement(row int, b []byte) error {
	if !v.typ.Kind().IsStringLike() {
		return base.TypeMismatchf("cannot assign a string element to a %s vector", v.typ)
	}
	if err := base.CheckRow(row, v.n); err != nil {
		return err
	}
	m := v.e.opts.Metrics
	var ptr uint64
	if len(b) > vector.StringInlineMax {
		var reused bool
		ptr, reused = v.e.heap.add(b)
		if reused {
			m.HeapDedupHits.Inc()
		}
		blocks, size := v.e.heap.stats()
		m.HeapBytes.Set(float64(size))
		v.e.logf("string heap: %d bytes in %d blocks", size, blocks)
	}
	vector.PutStringCell(v.data[row*v.stride:(row+1)*v.stride], b, ptr)
	m.StringAssignments.Inc()
	m.PayloadSize.Observe(float64(len(b)))
	return nil
}

// ListChild implements vector.RawVector.
func (v *Vector) ListChild() vector.RawVector {
	if v.listChild == nil {
		panic(errors.AssertionFailedf("%s vector has no list child", v.typ))
	}
	return v.listChild
}

// ListSize implements vector.RawVector.
func (v *Vector) ListSize() int { return v.listSize }

// SetListSize implements vector.RawVector. Growing preserves the child's
// existing rows.
func (v *Vector) SetListSize(n int) error {
	if v.listChild == nil {
		return base.TypeMismatchf("cannot resize the list child of a %s vector", v.typ)
	}
	if n < 0 {
		return base.OutOfRangef("negative list size %d", n)
	}
	if n > v.listChild.n {
		v.e.logf("growing %s list child from %d to %d rows", v.typ, v.listChild.n, n)
		v.listChild.grow(n)
		v.e.opts.Metrics.ListResizes.Inc()
	}
	v.listSize = n
	return nil
}

// StructChild implements vector.RawVector.
func (v *Vector) StructChild(i int) vector.RawVector {
	return v.children[i]
}

// ArrayChild implements vector.RawVector.
func (v *Vector) ArrayChild() vector.RawVector {
	if v.arrayChild == nil {
		panic(errors.AssertionFailedf("%s vector has no array child", v.typ))
	}
	return v.arrayChild
}

// grow extends the vector, and the children that share its row indexing, to
// n rows. New rows are zeroed and valid.
func (v *Vector) grow(n int) {
	if n <= v.n {
		return
	}
	old := v.n
	v.data = append(v.data, make([]byte, (n-old)*v.stride)...)
	if v.validity != nil {
		words := vector.ValidityWords(n)
		for len(v.validity) < words {
			v.validity = append(v.validity, ^uint64(0))
		}
		for i := old; i < n; i++ {
			v.validity[i>>6] |= 1 << uint(i%64)
		}
	}
	v.n = n
	for _, c := range v.children {
		c.grow(n)
	}
	if v.arrayChild != nil {
		v.arrayChild.grow(n * v.typ.Length())
	}
}

// Reset zeroes the vector and its children, marks every row valid and empties
// list children. The string heap is not reclaimed.
func (v *Vector) Reset() {
	clear(v.data)
	v.validity = nil
	v.listSize = 0
	if v.listChild != nil {
		v.listChild.Reset()
	}
	for _, c := range v.children {
		c.Reset()
	}
	if v.arrayChild != nil {
		v.arrayChild.Reset()
	}
}
