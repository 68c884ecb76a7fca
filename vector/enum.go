// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
)

// Enum is a vector of ENUM values. Each cell holds an unsigned index into the
// type's dictionary, 1, 2 or 4 bytes wide depending on the dictionary size.
// Values decode to the dictionary string.
type Enum struct {
	common
	width int
	dict  *enumDict
}

var _ Vector = (*Enum)(nil)

// enumDict is the dictionary and its reverse index, shared by slices.
type enumDict struct {
	values  []string
	reverse swiss.Map[string, uint32]
}

func newEnumDict(values []string) *enumDict {
	d := &enumDict{values: values}
	d.reverse.Init(len(values))
	for i, v := range values {
		d.reverse.Put(v, uint32(i))
	}
	return d
}

func newEnum(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Enum, error) {
	var width int
	switch k := typ.EnumIndexKind(); k {
	case logicaltype.KindUTinyInt:
		width = 1
	case logicaltype.KindUSmallInt:
		width = 2
	case logicaltype.KindUInteger:
		width = 4
	default:
		return nil, base.UnsupportedTypef("enum index type %s", k)
	}
	return &Enum{
		common: makeCommon(t, raw, typ, n),
		width:  width,
		dict:   newEnumDict(typ.EnumValues()),
	}, nil
}

// IndexWidth returns the width in bytes of one index cell.
func (e *Enum) IndexWidth() int { return e.width }

// Index returns the dictionary index stored at row i, ignoring validity.
func (e *Enum) Index(i int) (uint32, error) {
	if err := e.checkRow(i); err != nil {
		return 0, err
	}
	b, err := e.cell(i, e.width)
	if err != nil {
		return 0, err
	}
	idx := uint32(loadUint(b, e.width))
	if int(idx) >= len(e.dict.values) {
		return 0, base.CorruptLayoutf("enum index %d at row %d beyond dictionary of %d values",
			idx, e.offset+i, len(e.dict.values))
	}
	return idx, nil
}

// Get implements Vector.
func (e *Enum) Get(i int) (any, error) {
	if err := e.checkRow(i); err != nil {
		return nil, err
	}
	if !e.validity.Valid(i) {
		return nil, nil
	}
	idx, err := e.Index(i)
	if err != nil {
		return nil, err
	}
	return e.dict.values[idx], nil
}

// Set implements Vector. It accepts a dictionary string.
func (e *Enum) Set(i int, v any) error {
	if err := e.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		e.validity.SetValid(i, false)
		return nil
	}
	idx, err := e.lookup(v)
	if err != nil {
		return err
	}
	b, err := e.cell(i, e.width)
	if err != nil {
		return err
	}
	storeUint(b, e.width, uint64(idx))
	e.validity.SetValid(i, true)
	return nil
}

func (e *Enum) lookup(v any) (uint32, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.Wrapf(mismatch(v), "encoding %s", e.typ)
	}
	idx, ok := e.dict.reverse.Get(s)
	if !ok {
		return 0, base.OutOfRangef("%q is not a value of %s", s, e.typ)
	}
	return idx, nil
}

func (e *Enum) normalize(v any) (any, error) {
	idx, err := e.lookup(v)
	if err != nil {
		return nil, err
	}
	return e.dict.values[idx], nil
}

// Slice implements Vector.
func (e *Enum) Slice(offset, n int) (Vector, error) {
	c, err := e.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &Enum{common: c, width: e.width, dict: e.dict}, nil
}

// Flush implements Vector.
func (e *Enum) Flush() error {
	e.validity.Flush()
	return nil
}
