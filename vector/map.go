// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
)

// Map is a vector of maps, stored as a list of STRUCT(key, value) entries.
// Valid rows decode to a value.Map in entry order.
type Map struct {
	*List
}

var _ Vector = (*Map)(nil)

func newMap(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Map, error) {
	l, err := newListOf(t, raw, typ, typ.MapEntryType(), n)
	if err != nil {
		return nil, err
	}
	return &Map{List: l}, nil
}

// Entries returns the STRUCT(key, value) child vector.
func (m *Map) Entries() *Struct {
	return m.st.child.(*Struct)
}

// Get implements Vector.
func (m *Map) Get(i int) (any, error) {
	v, err := m.List.Get(i)
	if v == nil || err != nil {
		return nil, err
	}
	return toMap(v.(value.List)), nil
}

func toMap(l value.List) value.Map {
	out := make(value.Map, len(l))
	for j, e := range l {
		s := e.(value.Struct)
		out[j] = value.MapEntry{Key: s[0].Value, Value: s[1].Value}
	}
	return out
}

// Set implements Vector. It accepts a value.Map, or a map[string]any whose
// entries are written in key order. Keys must not be null.
func (m *Map) Set(i int, v any) error {
	if v == nil {
		return m.List.Set(i, nil)
	}
	if err := m.checkSet(i); err != nil {
		return err
	}
	l, err := m.toList(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", m.typ)
	}
	return m.List.Set(i, l)
}

func (m *Map) toList(v any) (value.List, error) {
	var entries value.Map
	switch t := v.(type) {
	case value.Map:
		entries = t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries = make(value.Map, len(keys))
		for j, k := range keys {
			entries[j] = value.MapEntry{Key: k, Value: t[k]}
		}
	default:
		return nil, mismatch(v)
	}
	out := make(value.List, len(entries))
	for j, e := range entries {
		if e.Key == nil {
			return nil, base.TypeMismatchf("map key %d is NULL", j)
		}
		out[j] = value.Struct{{Name: "key", Value: e.Key}, {Name: "value", Value: e.Value}}
	}
	return out, nil
}

func (m *Map) normalize(v any) (any, error) {
	l, err := m.toList(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", m.typ)
	}
	nl, err := m.List.encode(l)
	if err != nil {
		return nil, err
	}
	return toMap(nl), nil
}

// Slice implements Vector.
func (m *Map) Slice(offset, n int) (Vector, error) {
	l, err := m.List.Slice(offset, n)
	if err != nil {
		return nil, err
	}
	return &Map{List: l.(*List)}, nil
}
