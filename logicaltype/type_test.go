// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package logicaltype

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	var buf strings.Builder
	datadriven.RunTest(t, "testdata/types", func(t *testing.T, td *datadriven.TestData) string {
		buf.Reset()
		switch td.Cmd {
		case "parse":
			for _, line := range strings.Split(td.Input, "\n") {
				typ, err := Parse(line)
				switch {
				case errors.Is(err, base.ErrOutOfRange):
					fmt.Fprintln(&buf, "error: out of range")
				case err != nil:
					fmt.Fprintln(&buf, "error")
				default:
					fmt.Fprintf(&buf, "%s leaves=%d\n", typ, typ.LeafCount())
					// The printed form must parse back to an equal type.
					again, err := Parse(typ.String())
					require.NoError(t, err)
					require.True(t, Equal(typ, again), "%s", typ)
				}
			}
			return buf.String()
		case "enum-index":
			for _, f := range strings.Fields(td.Input) {
				n, err := strconv.Atoi(f)
				require.NoError(t, err)
				k, err := EnumIndexKind(n)
				require.NoError(t, err)
				fmt.Fprintf(&buf, "%d: %s\n", n, k)
			}
			return buf.String()
		default:
			panic(fmt.Sprintf("unknown command: %s", td.Cmd))
		}
	})
}

func TestEqual(t *testing.T) {
	dec := Must(Decimal(9, 2))
	require.True(t, Equal(dec, Must(Decimal(9, 2))))
	require.False(t, Equal(dec, Must(Decimal(9, 3))))
	require.True(t, Equal(dec, dec.WithAlias("money")))
	require.Equal(t, "money", dec.WithAlias("money").Alias())
	require.Equal(t, "", dec.Alias())

	require.True(t, Equal(List(Integer), List(Integer)))
	require.False(t, Equal(List(Integer), List(BigInt)))
	require.False(t, Equal(Must(Array(Integer, 2)), Must(Array(Integer, 3))))
	require.False(t, Equal(List(Integer), Must(Array(Integer, 3))))

	s1 := Must(Struct([]string{"a", "b"}, []*T{Integer, Varchar}))
	s2 := Must(Struct([]string{"a", "c"}, []*T{Integer, Varchar}))
	require.False(t, Equal(s1, s2))
	require.Equal(t, 1, s1.EntryIndex("b"))
	require.Equal(t, -1, s1.EntryIndex("z"))

	e1 := Must(Enum([]string{"x", "y"}))
	e2 := Must(EnumWithIndex([]string{"x", "y"}, KindUSmallInt))
	require.False(t, Equal(e1, e2))
	require.True(t, Equal(e1, Must(Enum([]string{"x", "y"}))))
	require.False(t, Equal(nil, Integer))
}

func TestConstructorErrors(t *testing.T) {
	_, err := Decimal(39, 0)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
	_, err = Decimal(0, 0)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
	_, err = Struct([]string{"a"}, nil)
	require.Error(t, err)
	_, err = Union(nil, nil)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
	_, err = EnumWithIndex([]string{"a"}, KindBigInt)
	require.True(t, errors.Is(err, base.ErrUnsupportedType))
	_, err = FromKind(KindList)
	require.True(t, errors.Is(err, base.ErrUnsupportedType))
	typ, err := FromKind(KindUUID)
	require.NoError(t, err)
	require.Same(t, UUID, typ)
}

func TestDerivedTypes(t *testing.T) {
	m := Map(Varchar, Integer)
	require.Equal(t, `STRUCT("key" VARCHAR, "value" INTEGER)`, m.MapEntryType().String())

	u := Must(Union([]string{"n", "s"}, []*T{Integer, Varchar}))
	require.Equal(t, `STRUCT("tag" UTINYINT, "n" INTEGER, "s" VARCHAR)`, u.UnionStructType().String())
}

func TestSafeFormat(t *testing.T) {
	require.Equal(t, "INTEGER", string(redact.Sprint(KindInteger).Redact()))
	require.Equal(t, "DECIMAL(9,2)", string(redact.Sprint(Must(Decimal(9, 2))).Redact()))
	e := Must(Enum([]string{"secret", "other"}))
	require.Equal(t, "ENUM(‹×›, ‹×›)", string(redact.Sprint(e).Redact()))
	require.Equal(t, "ENUM(secret, other)", redact.Sprint(e).StripMarkers())
}

func TestKind(t *testing.T) {
	require.Equal(t, "UNKNOWN", Kind(200).String())
	require.True(t, KindMap.IsNested())
	require.False(t, KindEnum.IsNested())
	require.True(t, KindVarInt.IsStringLike())
	require.True(t, KindUUID.IsPrimitive())
	require.False(t, KindDecimal.IsPrimitive())
}

func TestConstructorsCopyInputs(t *testing.T) {
	values := []string{"a", "b"}
	e := Must(Enum(values))
	values[0] = "z"
	require.Equal(t, []string{"a", "b"}, e.EnumValues())

	names := []string{"x"}
	s := Must(Struct(names, []*T{Integer}))
	names[0] = "y"
	require.Equal(t, "x", s.EntryName(0))
	require.Equal(t, 0, s.EntryIndex("x"))
}

func TestEnumDuplicates(t *testing.T) {
	_, err := Enum([]string{"a", "b", "a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"a" appears more than once`)
	_, err = EnumWithIndex([]string{"a", "a"}, KindUSmallInt)
	require.Error(t, err)
	_, err = Parse("ENUM('x', 'x')")
	require.Error(t, err)
}
