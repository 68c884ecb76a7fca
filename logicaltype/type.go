// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package logicaltype describes the logical types of engine vectors. A *T is
// immutable once constructed and may be shared freely between vectors,
// goroutines and chunks.
package logicaltype

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/duckvec/duckvec/internal/base"
)

// MaxDecimalWidth is the largest total digit count a DECIMAL may declare.
const MaxDecimalWidth = 38

// DefaultDecimalWidth and DefaultDecimalScale are used for a bare DECIMAL.
const (
	DefaultDecimalWidth = 18
	DefaultDecimalScale = 3
)

// T describes a logical type: a Kind plus the kind-specific parameters.
type T struct {
	kind  Kind
	alias string

	// DECIMAL
	width uint8
	scale uint8

	// LIST, ARRAY
	child  *T
	length int

	// MAP
	key   *T
	value *T

	// STRUCT entries, UNION members
	names []string
	types []*T

	// ENUM
	values    []string
	indexKind Kind
}

func primitive(k Kind) *T {
	return &T{kind: k}
}

// Primitive types.
var (
	Boolean     = primitive(KindBoolean)
	TinyInt     = primitive(KindTinyInt)
	SmallInt    = primitive(KindSmallInt)
	Integer     = primitive(KindInteger)
	BigInt      = primitive(KindBigInt)
	UTinyInt    = primitive(KindUTinyInt)
	USmallInt   = primitive(KindUSmallInt)
	UInteger    = primitive(KindUInteger)
	UBigInt     = primitive(KindUBigInt)
	Float       = primitive(KindFloat)
	Double      = primitive(KindDouble)
	Timestamp   = primitive(KindTimestamp)
	Date        = primitive(KindDate)
	Time        = primitive(KindTime)
	Interval    = primitive(KindInterval)
	HugeInt     = primitive(KindHugeInt)
	UHugeInt    = primitive(KindUHugeInt)
	Varchar     = primitive(KindVarchar)
	Blob        = primitive(KindBlob)
	TimestampS  = primitive(KindTimestampS)
	TimestampMS = primitive(KindTimestampMS)
	TimestampNS = primitive(KindTimestampNS)
	UUID        = primitive(KindUUID)
	Bit         = primitive(KindBit)
	TimeTZ      = primitive(KindTimeTZ)
	TimestampTZ = primitive(KindTimestampTZ)
	VarInt      = primitive(KindVarInt)
	Any         = primitive(KindAny)
	SQLNull     = primitive(KindSQLNull)

	// Invalid is the type of a vector whose type the engine could not
	// report. No vector can be created over it.
	Invalid = primitive(KindInvalid)
)

var primitives = func() map[Kind]*T {
	m := make(map[Kind]*T)
	for _, t := range []*T{
		Boolean, TinyInt, SmallInt, Integer, BigInt, UTinyInt, USmallInt, UInteger,
		UBigInt, Float, Double, Timestamp, Date, Time, Interval, HugeInt, UHugeInt,
		Varchar, Blob, TimestampS, TimestampMS, TimestampNS, UUID, Bit, TimeTZ,
		TimestampTZ, VarInt, Any, SQLNull,
	} {
		m[t.kind] = t
	}
	return m
}()

// FromKind returns the type for a parameterless kind.
func FromKind(k Kind) (*T, error) {
	if t, ok := primitives[k]; ok {
		return t, nil
	}
	return nil, base.UnsupportedTypef("kind %s requires type parameters", k)
}

// Must panics if err is non-nil and returns t otherwise. It is intended for
// package-level type declarations and tests.
func Must(t *T, err error) *T {
	if err != nil {
		panic(err)
	}
	return t
}

// Decimal returns a DECIMAL(width, scale) type.
func Decimal(width, scale int) (*T, error) {
	if width <= 0 || width > MaxDecimalWidth {
		return nil, base.OutOfRangef("DECIMAL width %d not in [1, %d]", width, MaxDecimalWidth)
	}
	if scale < 0 || scale > width {
		return nil, base.OutOfRangef("DECIMAL scale %d not in [0, %d]", scale, width)
	}
	return &T{kind: KindDecimal, width: uint8(width), scale: uint8(scale)}, nil
}

// List returns a LIST type with the given element type.
func List(child *T) *T {
	return &T{kind: KindList, child: child}
}

// Array returns a fixed-length ARRAY type.
func Array(child *T, length int) (*T, error) {
	if length <= 0 {
		return nil, base.OutOfRangef("ARRAY length %d must be positive", length)
	}
	return &T{kind: KindArray, child: child, length: length}, nil
}

// Struct returns a STRUCT type with the given entries.
func Struct(names []string, types []*T) (*T, error) {
	if len(names) != len(types) {
		return nil, errors.Newf("STRUCT has %d entry names but %d entry types", len(names), len(types))
	}
	if len(names) == 0 {
		return nil, errors.New("STRUCT must have at least one entry")
	}
	return &T{kind: KindStruct, names: slices.Clone(names), types: slices.Clone(types)}, nil
}

// Map returns a MAP type.
func Map(key, value *T) *T {
	return &T{kind: KindMap, key: key, value: value}
}

// MaxUnionMembers is the largest number of members a UNION may declare; the
// tag is stored as a UTINYINT.
const MaxUnionMembers = 255

// Union returns a UNION type with the given member tags and types.
func Union(tags []string, types []*T) (*T, error) {
	if len(tags) != len(types) {
		return nil, errors.Newf("UNION has %d member tags but %d member types", len(tags), len(types))
	}
	if len(tags) == 0 || len(tags) > MaxUnionMembers {
		return nil, base.OutOfRangef("UNION member count %d not in [1, %d]", len(tags), MaxUnionMembers)
	}
	return &T{kind: KindUnion, names: slices.Clone(tags), types: slices.Clone(types)}, nil
}

// EnumIndexKind returns the unsigned integer kind used to store indexes into
// a dictionary of n values.
func EnumIndexKind(n int) (Kind, error) {
	switch {
	case n <= 0xFF:
		return KindUTinyInt, nil
	case n <= 0xFFFF:
		return KindUSmallInt, nil
	case uint64(n) <= 0xFFFFFFFF:
		return KindUInteger, nil
	default:
		return KindInvalid, base.OutOfRangef("ENUM cannot have %d values", n)
	}
}

// Enum returns an ENUM type over the given dictionary, choosing the narrowest
// index width that can address every value.
func Enum(values []string) (*T, error) {
	k, err := EnumIndexKind(len(values))
	if err != nil {
		return nil, err
	}
	return newEnum(values, k)
}

// EnumWithIndex returns an ENUM type with an explicit index kind, as reported
// by an engine that chose the width itself.
func EnumWithIndex(values []string, indexKind Kind) (*T, error) {
	var limit uint64
	switch indexKind {
	case KindUTinyInt:
		limit = 0xFF + 1
	case KindUSmallInt:
		limit = 0xFFFF + 1
	case KindUInteger:
		limit = 0xFFFFFFFF + 1
	default:
		return nil, base.UnsupportedTypef("unsupported ENUM index type %s", indexKind)
	}
	if uint64(len(values)) > limit {
		return nil, base.OutOfRangef("ENUM index type %s cannot address %d values", indexKind, len(values))
	}
	return newEnum(values, indexKind)
}

func newEnum(values []string, indexKind Kind) (*T, error) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return nil, errors.Newf("ENUM value %q appears more than once", v)
		}
		seen[v] = struct{}{}
	}
	return &T{kind: KindEnum, values: slices.Clone(values), indexKind: indexKind}, nil
}

// WithAlias returns a copy of t carrying the given alias.
func (t *T) WithAlias(alias string) *T {
	c := *t
	c.alias = alias
	return &c
}

// Kind returns the type's kind.
func (t *T) Kind() Kind { return t.kind }

// Alias returns the type's alias, if any.
func (t *T) Alias() string { return t.alias }

// Width returns the total digit count of a DECIMAL.
func (t *T) Width() int { return int(t.width) }

// Scale returns the fractional digit count of a DECIMAL.
func (t *T) Scale() int { return int(t.scale) }

// Child returns the element type of a LIST or ARRAY.
func (t *T) Child() *T { return t.child }

// Length returns the fixed length of an ARRAY.
func (t *T) Length() int { return t.length }

// Key returns the key type of a MAP.
func (t *T) Key() *T { return t.key }

// Value returns the value type of a MAP.
func (t *T) Value() *T { return t.value }

// EntryCount returns the number of STRUCT entries or UNION members.
func (t *T) EntryCount() int { return len(t.names) }

// EntryName returns the name of the i'th STRUCT entry or UNION member tag.
func (t *T) EntryName(i int) string { return t.names[i] }

// EntryType returns the type of the i'th STRUCT entry or UNION member.
func (t *T) EntryType(i int) *T { return t.types[i] }

// EntryIndex returns the index of the STRUCT entry or UNION member with the
// given name, or -1.
func (t *T) EntryIndex(name string) int {
	for i := range t.names {
		if t.names[i] == name {
			return i
		}
	}
	return -1
}

// EnumValues returns the ENUM dictionary. The returned slice must not be
// mutated.
func (t *T) EnumValues() []string { return t.values }

// EnumIndexKind returns the kind of the ENUM's stored indexes.
func (t *T) EnumIndexKind() Kind { return t.indexKind }

// LeafCount returns the number of innermost elements a single value of t
// occupies: the product of the lengths of nested ARRAY types, and 1 for
// anything else.
func (t *T) LeafCount() int {
	if t.kind != KindArray {
		return 1
	}
	return t.length * t.child.LeafCount()
}

// MapEntryType returns the STRUCT(key, value) type that backs a MAP's list
// child.
func (t *T) MapEntryType() *T {
	return &T{kind: KindStruct, names: []string{"key", "value"}, types: []*T{t.key, t.value}}
}

// UnionStructType returns the STRUCT type that backs a UNION: a UTINYINT tag
// followed by one entry per member.
func (t *T) UnionStructType() *T {
	names := make([]string, 0, len(t.names)+1)
	types := make([]*T, 0, len(t.types)+1)
	names = append(append(names, "tag"), t.names...)
	types = append(append(types, UTinyInt), t.types...)
	return &T{kind: KindStruct, names: names, types: types}
}

// Equal returns true if a and b describe the same logical type. Aliases are
// ignored.
func Equal(a, b *T) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindDecimal:
		return a.width == b.width && a.scale == b.scale
	case KindList:
		return Equal(a.child, b.child)
	case KindArray:
		return a.length == b.length && Equal(a.child, b.child)
	case KindMap:
		return Equal(a.key, b.key) && Equal(a.value, b.value)
	case KindStruct, KindUnion:
		if len(a.names) != len(b.names) {
			return false
		}
		for i := range a.names {
			if a.names[i] != b.names[i] || !Equal(a.types[i], b.types[i]) {
				return false
			}
		}
		return true
	case KindEnum:
		if a.indexKind != b.indexKind || len(a.values) != len(b.values) {
			return false
		}
		for i := range a.values {
			if a.values[i] != b.values[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns the engine's SQL spelling of the type.
func (t *T) String() string {
	var sb strings.Builder
	t.format(&sb)
	return sb.String()
}

func (t *T) format(sb *strings.Builder) {
	switch t.kind {
	case KindDecimal:
		fmt.Fprintf(sb, "DECIMAL(%d,%d)", t.width, t.scale)
	case KindEnum:
		sb.WriteString("ENUM(")
		for i, v := range t.values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(QuoteString(v))
		}
		sb.WriteString(")")
	case KindList:
		t.child.format(sb)
		sb.WriteString("[]")
	case KindArray:
		t.child.format(sb)
		fmt.Fprintf(sb, "[%d]", t.length)
	case KindStruct, KindUnion:
		if t.kind == KindStruct {
			sb.WriteString("STRUCT(")
		} else {
			sb.WriteString("UNION(")
		}
		for i := range t.names {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(QuoteIdentifier(t.names[i]))
			sb.WriteString(" ")
			t.types[i].format(sb)
		}
		sb.WriteString(")")
	case KindMap:
		sb.WriteString("MAP(")
		t.key.format(sb)
		sb.WriteString(", ")
		t.value.format(sb)
		sb.WriteString(")")
	case KindTimeTZ:
		sb.WriteString("TIME WITH TIME ZONE")
	case KindTimestampTZ:
		sb.WriteString("TIMESTAMP WITH TIME ZONE")
	default:
		sb.WriteString(t.kind.String())
	}
}

// SafeFormat implements redact.SafeFormatter. The type structure is safe;
// ENUM dictionary values are treated as user data.
func (t *T) SafeFormat(w redact.SafePrinter, _ rune) {
	if t.kind != KindEnum {
		w.Print(redact.SafeString(t.String()))
		return
	}
	w.Print(redact.SafeString("ENUM("))
	for i, v := range t.values {
		if i > 0 {
			w.Print(redact.SafeString(", "))
		}
		w.Print(v)
	}
	w.Print(redact.SafeString(")"))
}

// QuoteString quotes s as a SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier quotes s as a SQL identifier.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
