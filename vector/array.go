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

// Array is a vector of fixed-length arrays. Row i occupies child rows
// [i*length, (i+1)*length); there is no entry table. Nested arrays multiply
// their lengths, so the leaf vector of T[a][b] has rows*a*b rows.
type Array struct {
	common
	length int
	child  Vector
}

var _ Vector = (*Array)(nil)

func newArray(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Array, error) {
	length := typ.Length()
	child, err := create(t, raw.ArrayChild(), typ.Child(), n*length)
	if err != nil {
		return nil, errors.Wrapf(err, "creating child of %s", typ)
	}
	return &Array{common: makeCommon(t, raw, typ, n), length: length, child: child}, nil
}

// Length returns the number of elements in every row.
func (a *Array) Length() int { return a.length }

// Child returns the unsliced child vector.
func (a *Array) Child() Vector { return a.child }

// Get implements Vector.
func (a *Array) Get(i int) (any, error) {
	if err := a.checkRow(i); err != nil {
		return nil, err
	}
	if !a.validity.Valid(i) {
		return nil, nil
	}
	start := (a.offset + i) * a.length
	out := make(value.Array, a.length)
	for j := range out {
		var err error
		if out[j], err = a.child.Get(start + j); err != nil {
			return nil, errors.Wrapf(err, "decoding element %d of %s row %d", j, a.typ, a.offset+i)
		}
	}
	return out, nil
}

// Set implements Vector. It accepts a value.Array, value.List or []any of
// exactly Length elements.
func (a *Array) Set(i int, v any) error {
	if err := a.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		a.validity.SetValid(i, false)
		return nil
	}
	elems, err := a.encode(v)
	if err != nil {
		return err
	}
	start := (a.offset + i) * a.length
	for j, e := range elems {
		if err := a.child.Set(start+j, e); err != nil {
			return errors.Wrapf(err, "element %d", j)
		}
	}
	a.validity.SetValid(i, true)
	return nil
}

func (a *Array) encode(v any) (value.Array, error) {
	var in []any
	switch t := v.(type) {
	case value.Array:
		in = t
	case value.List:
		in = t
	case []any:
		in = t
	default:
		return nil, errors.Wrapf(mismatch(v), "encoding %s", a.typ)
	}
	if len(in) != a.length {
		return nil, base.TypeMismatchf("%d elements do not match %s", len(in), a.typ)
	}
	out := make(value.Array, len(in))
	for j, e := range in {
		var err error
		if out[j], err = Normalize(a.child, e); err != nil {
			return nil, errors.Wrapf(err, "element %d", j)
		}
	}
	return out, nil
}

func (a *Array) normalize(v any) (any, error) {
	return a.encode(v)
}

// Slice implements Vector. Only the row window moves; the child is shared.
func (a *Array) Slice(offset, n int) (Vector, error) {
	c, err := a.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &Array{common: c, length: a.length, child: a.child}, nil
}

// Flush implements Vector.
func (a *Array) Flush() error {
	if err := a.child.Flush(); err != nil {
		return err
	}
	a.validity.Flush()
	return nil
}
