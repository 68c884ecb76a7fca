// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
)

// Union is a vector of tagged unions, laid out like the struct returned by
// logicaltype.T.UnionStructType: child 0 holds the UTINYINT member index and
// child k+1 holds member k. Only the tagged member is meaningful in a row.
type Union struct {
	common
	// children[0] is the tag.
	children []Vector
}

var _ Vector = (*Union)(nil)

func newUnion(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Union, error) {
	children, err := createChildren(t, raw, typ.UnionStructType(), n)
	if err != nil {
		return nil, err
	}
	if _, ok := children[0].(*Fixed[uint8]); !ok {
		return nil, errors.AssertionFailedf("union tag vector is %T", children[0])
	}
	return &Union{common: makeCommon(t, raw, typ, n), children: children}, nil
}

// Member returns the vector of member k.
func (u *Union) Member(k int) Vector { return u.children[k+1] }

// Tag returns the member index of row i, ignoring validity.
func (u *Union) Tag(i int) (int, error) {
	tag, err := u.children[0].(*Fixed[uint8]).At(i)
	if err != nil {
		return 0, err
	}
	if int(tag) >= u.typ.EntryCount() {
		return 0, base.CorruptLayoutf("union tag %d at row %d beyond %d members",
			tag, u.offset+i, u.typ.EntryCount())
	}
	return int(tag), nil
}

// Get implements Vector. Valid rows decode to a value.Union.
func (u *Union) Get(i int) (any, error) {
	if err := u.checkRow(i); err != nil {
		return nil, err
	}
	if !u.validity.Valid(i) {
		return nil, nil
	}
	k, err := u.Tag(i)
	if err != nil {
		return nil, err
	}
	v, err := u.Member(k).Get(i)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding member %q", u.typ.EntryName(k))
	}
	return value.Union{Tag: u.typ.EntryName(k), Value: v}, nil
}

// Set implements Vector. It accepts a value.Union naming one member. The
// other members are set to null.
func (u *Union) Set(i int, v any) error {
	if err := u.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		for _, c := range u.children {
			if err := c.Set(i, nil); err != nil {
				return err
			}
		}
		u.validity.SetValid(i, false)
		return nil
	}
	k, val, err := u.encode(v)
	if err != nil {
		return err
	}
	if err := u.children[0].Set(i, uint8(k)); err != nil {
		return err
	}
	for m := 0; m < u.typ.EntryCount(); m++ {
		x := any(nil)
		if m == k {
			x = val
		}
		if err := u.Member(m).Set(i, x); err != nil {
			return errors.Wrapf(err, "member %q", u.typ.EntryName(m))
		}
	}
	u.validity.SetValid(i, true)
	return nil
}

func (u *Union) encode(v any) (int, any, error) {
	uv, ok := v.(value.Union)
	if !ok {
		return 0, nil, errors.Wrapf(mismatch(v), "encoding %s", u.typ)
	}
	k := u.typ.EntryIndex(uv.Tag)
	if k < 0 {
		return 0, nil, base.TypeMismatchf("%s has no member %q", u.typ, uv.Tag)
	}
	val, err := Normalize(u.Member(k), uv.Value)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "member %q", uv.Tag)
	}
	return k, val, nil
}

func (u *Union) normalize(v any) (any, error) {
	k, val, err := u.encode(v)
	if err != nil {
		return nil, err
	}
	return value.Union{Tag: u.typ.EntryName(k), Value: val}, nil
}

// Slice implements Vector.
func (u *Union) Slice(offset, n int) (Vector, error) {
	c, err := u.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	children, err := sliceAll(u.children, offset, n)
	if err != nil {
		return nil, err
	}
	return &Union{common: c, children: children}, nil
}

// Flush implements Vector.
func (u *Union) Flush() error {
	if err := flushAll(u.children); err != nil {
		return err
	}
	u.validity.Flush()
	return nil
}
