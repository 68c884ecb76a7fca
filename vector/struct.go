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

// Struct is a vector of structs. Each entry has a child vector spanning the
// same rows as the parent. A null parent row reads as nil regardless of its
// children, and setting a parent row to null sets every child row to null.
type Struct struct {
	common
	children []Vector
}

var _ Vector = (*Struct)(nil)

func newStruct(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Struct, error) {
	children, err := createChildren(t, raw, typ, n)
	if err != nil {
		return nil, err
	}
	return &Struct{common: makeCommon(t, raw, typ, n), children: children}, nil
}

// createChildren creates one full-length child per entry of typ.
func createChildren(t *tree, raw RawVector, typ *logicaltype.T, n int) ([]Vector, error) {
	children := make([]Vector, typ.EntryCount())
	for k := range children {
		var err error
		children[k], err = create(t, raw.StructChild(k), typ.EntryType(k), n)
		if err != nil {
			return nil, errors.Wrapf(err, "creating entry %q of %s", typ.EntryName(k), typ)
		}
	}
	return children, nil
}

// Child returns the vector of entry k, viewing the same rows as s.
func (s *Struct) Child(k int) Vector { return s.children[k] }

// ChildByName returns the vector of the named entry, or nil.
func (s *Struct) ChildByName(name string) Vector {
	k := s.typ.EntryIndex(name)
	if k < 0 {
		return nil
	}
	return s.children[k]
}

// Get implements Vector. Valid rows decode to a value.Struct with one entry
// per field in type order.
func (s *Struct) Get(i int) (any, error) {
	if err := s.checkRow(i); err != nil {
		return nil, err
	}
	if !s.validity.Valid(i) {
		return nil, nil
	}
	out := make(value.Struct, len(s.children))
	for k, c := range s.children {
		v, err := c.Get(i)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding entry %q", s.typ.EntryName(k))
		}
		out[k] = value.StructEntry{Name: s.typ.EntryName(k), Value: v}
	}
	return out, nil
}

// Set implements Vector. It accepts a value.Struct or a map[string]any keyed
// by entry name. Missing entries are set to null.
func (s *Struct) Set(i int, v any) error {
	if err := s.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		for _, c := range s.children {
			if err := c.Set(i, nil); err != nil {
				return err
			}
		}
		s.validity.SetValid(i, false)
		return nil
	}
	sv, err := s.encode(v)
	if err != nil {
		return err
	}
	for k, c := range s.children {
		if err := c.Set(i, sv[k].Value); err != nil {
			return errors.Wrapf(err, "entry %q", sv[k].Name)
		}
	}
	s.validity.SetValid(i, true)
	return nil
}

func (s *Struct) encode(v any) (value.Struct, error) {
	vals := make([]any, len(s.children))
	seen := make([]bool, len(s.children))
	assign := func(name string, x any) error {
		k := s.typ.EntryIndex(name)
		if k < 0 {
			return base.TypeMismatchf("%s has no entry %q", s.typ, name)
		}
		if seen[k] {
			return base.TypeMismatchf("duplicate entry %q", name)
		}
		vals[k], seen[k] = x, true
		return nil
	}
	switch t := v.(type) {
	case value.Struct:
		for _, e := range t {
			if err := assign(e.Name, e.Value); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		for name, x := range t {
			if err := assign(name, x); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.Wrapf(mismatch(v), "encoding %s", s.typ)
	}
	out := make(value.Struct, len(s.children))
	for k, c := range s.children {
		name := s.typ.EntryName(k)
		x, err := Normalize(c, vals[k])
		if err != nil {
			return nil, errors.Wrapf(err, "entry %q", name)
		}
		out[k] = value.StructEntry{Name: name, Value: x}
	}
	return out, nil
}

func (s *Struct) normalize(v any) (any, error) {
	return s.encode(v)
}

// Slice implements Vector. Children are sliced identically.
func (s *Struct) Slice(offset, n int) (Vector, error) {
	c, err := s.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	children, err := sliceAll(s.children, offset, n)
	if err != nil {
		return nil, err
	}
	return &Struct{common: c, children: children}, nil
}

func sliceAll(vs []Vector, offset, n int) ([]Vector, error) {
	out := make([]Vector, len(vs))
	for k, v := range vs {
		var err error
		if out[k], err = v.Slice(offset, n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func flushAll(vs []Vector) error {
	for _, v := range vs {
		if err := v.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Flush implements Vector.
func (s *Struct) Flush() error {
	if err := flushAll(s.children); err != nil {
		return err
	}
	s.validity.Flush()
	return nil
}
