// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"encoding/binary"

	"github.com/RoaringBitmap/roaring"
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
)

// ListEntrySize is the size of a list entry: a little-endian u64 offset into
// the child vector followed by a u64 length.
const ListEntrySize = 16

// List is a vector of variable-length lists. Each row is an entry
// (offset, length) into one child vector shared by all rows.
//
// Set stages the row's value. Flush rewrites the whole child: it decodes every
// clean row, lays out all rows contiguously, resizes the child through
// SetListSize, rebuilds the child view and writes every element. Any child
// vector obtained before a Flush that had staged rows is stale afterwards.
type List struct {
	common
	st *listState
}

var _ Vector = (*List)(nil)

// listState is shared by a list and its slices. Rows are absolute.
type listState struct {
	root      *List
	childType *logicaltype.T
	child     Vector
	pending   []value.List
	dirty     roaring.Bitmap
}

func newList(t *tree, raw RawVector, typ *logicaltype.T, n int) (*List, error) {
	return newListOf(t, raw, typ, typ.Child(), n)
}

// newListOf builds a list whose entries have type childType. MAP vectors use
// it with their entry struct type.
func newListOf(
	t *tree, raw RawVector, typ, childType *logicaltype.T, n int,
) (*List, error) {
	child, err := create(t, raw.ListChild(), childType, raw.ListSize())
	if err != nil {
		return nil, errors.Wrapf(err, "creating child of %s", typ)
	}
	l := &List{
		common: makeCommon(t, raw, typ, n),
		st: &listState{
			childType: childType,
			child:     child,
			pending:   make([]value.List, n),
		},
	}
	l.st.root = l
	return l, nil
}

// Child returns the current child vector. It is replaced by Flush.
func (l *List) Child() Vector { return l.st.child }

// Entry returns the (offset, length) entry of row i, ignoring validity and
// staged writes.
func (l *List) Entry(i int) (offset, length uint64, err error) {
	if err := l.checkRow(i); err != nil {
		return 0, 0, err
	}
	b, err := l.cell(i, ListEntrySize)
	if err != nil {
		return 0, 0, err
	}
	offset = binary.LittleEndian.Uint64(b[0:8])
	length = binary.LittleEndian.Uint64(b[8:16])
	if n := uint64(l.st.child.Len()); offset > n || length > n-offset {
		return 0, 0, base.CorruptLayoutf("list entry [%d, +%d) at row %d beyond child of %d rows",
			offset, length, l.offset+i, n)
	}
	return offset, length, nil
}

// Get implements Vector. Valid rows decode to a value.List, which is never
// nil for an empty list.
func (l *List) Get(i int) (any, error) {
	if err := l.checkRow(i); err != nil {
		return nil, err
	}
	if !l.validity.Valid(i) {
		return nil, nil
	}
	row := l.offset + i
	if l.st.dirty.Contains(uint32(row)) {
		return l.st.pending[row], nil
	}
	offset, length, err := l.Entry(i)
	if err != nil {
		return nil, err
	}
	out := make(value.List, length)
	for j := range out {
		if out[j], err = l.st.child.Get(int(offset) + j); err != nil {
			return nil, errors.Wrapf(err, "decoding element %d of %s row %d", j, l.typ, row)
		}
	}
	return out, nil
}

// Set implements Vector. It accepts a value.List, value.Array or []any.
func (l *List) Set(i int, v any) error {
	if err := l.checkSet(i); err != nil {
		return err
	}
	row := l.offset + i
	if v == nil {
		l.st.dirty.Remove(uint32(row))
		l.st.pending[row] = nil
		l.validity.SetValid(i, false)
		return nil
	}
	elems, err := l.encode(v)
	if err != nil {
		return err
	}
	l.st.pending[row] = elems
	l.st.dirty.Add(uint32(row))
	l.validity.SetValid(i, true)
	return nil
}

func (l *List) encode(v any) (value.List, error) {
	var in []any
	switch t := v.(type) {
	case value.List:
		in = t
	case value.Array:
		in = t
	case []any:
		in = t
	default:
		return nil, errors.Wrapf(mismatch(v), "encoding %s", l.typ)
	}
	out := make(value.List, len(in))
	for j, e := range in {
		var err error
		if out[j], err = Normalize(l.st.child, e); err != nil {
			return nil, errors.Wrapf(err, "element %d", j)
		}
	}
	return out, nil
}

func (l *List) normalize(v any) (any, error) {
	return l.encode(v)
}

// Slice implements Vector. The child is not sliced.
func (l *List) Slice(offset, n int) (Vector, error) {
	c, err := l.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &List{common: c, st: l.st}, nil
}

// Pending returns the number of staged rows awaiting Flush.
func (l *List) Pending() int {
	return int(l.st.dirty.GetCardinality())
}

// Flush implements Vector.
func (l *List) Flush() error {
	r := l.st.root
	if r.st.dirty.IsEmpty() {
		if err := r.st.child.Flush(); err != nil {
			return err
		}
		r.validity.Flush()
		return nil
	}
	return r.rewrite()
}

// rewrite lays out every row of the root list into a fresh child.
func (l *List) rewrite() error {
	rows := make([]value.List, l.n)
	total := 0
	for i := range rows {
		v, err := l.Get(i)
		if err != nil {
			return err
		}
		if v != nil {
			rows[i] = v.(value.List)
			total += len(rows[i])
		}
	}
	if err := l.raw.SetListSize(total); err != nil {
		return errors.Wrapf(err, "resizing child of %s to %d rows", l.typ, total)
	}
	child, err := create(l.tree, l.raw.ListChild(), l.st.childType, total)
	if err != nil {
		return err
	}
	offset := 0
	for i, elems := range rows {
		b, err := l.cell(i, ListEntrySize)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(b[0:8], uint64(offset))
		binary.LittleEndian.PutUint64(b[8:16], uint64(len(elems)))
		for j, e := range elems {
			if err := child.Set(offset+j, e); err != nil {
				return errors.Wrapf(err, "writing element %d of %s row %d", j, l.typ, i)
			}
		}
		offset += len(elems)
	}
	if err := child.Flush(); err != nil {
		return err
	}
	l.st.child = child
	clear(l.st.pending)
	l.st.dirty.Clear()
	l.validity.Flush()
	return nil
}
