// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"strings"

	"github.com/duckvec/duckvec/logicaltype"
)

// List is a LIST value. A decoded empty list is a non-nil empty List; a NULL
// list decodes as nil.
type List []any

func (l List) String() string {
	return formatElems(l)
}

// Array is an ARRAY value. Its length always equals the type's length.
type Array []any

func (a Array) String() string {
	return formatElems(a)
}

func formatElems(elems []any) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Format(e))
	}
	sb.WriteByte(']')
	return sb.String()
}

// StructEntry is one named field of a Struct.
type StructEntry struct {
	Name  string
	Value any
}

// Struct is a STRUCT value with its entries in type order.
type Struct []StructEntry

// Get returns the value of the named entry.
func (s Struct) Get(name string) (any, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

func (s Struct) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(logicaltype.QuoteString(e.Name))
		sb.WriteString(": ")
		sb.WriteString(Format(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is a MAP value. Entries keep their stored order.
type Map []MapEntry

func (m Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Format(e.Key))
		sb.WriteByte('=')
		sb.WriteString(Format(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Union is a UNION value: the tag of the active member and its value.
type Union struct {
	Tag   string
	Value any
}

func (u Union) String() string {
	return Format(u.Value)
}
