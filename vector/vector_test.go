// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector_test

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/memengine"
	"github.com/duckvec/duckvec/value"
	"github.com/duckvec/duckvec/vector"
	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts *memengine.Options) *memengine.Engine {
	e, err := memengine.New(opts)
	require.NoError(t, err)
	return e
}

// encode writes vals into a fresh vector of typ, flushes it and returns the
// engine vector together with a read-only vector borrowed from it.
func encode(
	t *testing.T, e *memengine.Engine, typ *logicaltype.T, vals ...any,
) (*memengine.Vector, vector.Vector) {
	raw, err := e.NewVector(typ, len(vals))
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, len(vals))
	require.NoError(t, err)
	require.NoError(t, vector.SetAll(w, vals))
	require.NoError(t, w.Flush())
	r, err := vector.Borrow(e.Env(), raw, len(vals))
	require.NoError(t, err)
	return raw, r
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func requireMark(t *testing.T, err error, mark error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, mark), "expected %v, got %v", mark, err)
}

func TestRoundTrip(t *testing.T) {
	day := time.Date(2024, 2, 29, 13, 14, 15, 123456000, time.UTC)
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	huge, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)

	for _, tc := range []struct {
		typ  string
		in   []any
		want []any
	}{
		{"BOOLEAN", []any{true, false, nil}, []any{true, false, nil}},
		{"TINYINT", []any{int8(-128), 127, nil}, []any{int8(-128), int8(127), nil}},
		{"SMALLINT", []any{-32768, int16(32767)}, []any{int16(-32768), int16(32767)}},
		{"INTEGER", []any{int32(math.MinInt32), math.MaxInt32}, []any{int32(math.MinInt32), int32(math.MaxInt32)}},
		{"BIGINT", []any{int64(math.MinInt64), uint8(3)}, []any{int64(math.MinInt64), int64(3)}},
		{"UTINYINT", []any{255, 0}, []any{uint8(255), uint8(0)}},
		{"USMALLINT", []any{65535}, []any{uint16(65535)}},
		{"UINTEGER", []any{uint32(math.MaxUint32)}, []any{uint32(math.MaxUint32)}},
		{"UBIGINT", []any{uint64(math.MaxUint64)}, []any{uint64(math.MaxUint64)}},
		{"FLOAT", []any{float32(1.5), nil}, []any{float32(1.5), nil}},
		{"DOUBLE", []any{-0.25, math.Inf(1)}, []any{-0.25, math.Inf(1)}},
		{"HUGEINT", []any{huge, 1}, []any{value.HugeInt{Lo: 0, Hi: math.MinInt64}, value.HugeIntFromInt64(1)}},
		{"UUID", []any{u, u.String()}, []any{u, u}},
		{"DATE", []any{day, value.Date{Days: -1}}, []any{value.Date{Days: 19782}, value.Date{Days: -1}}},
		{"TIME", []any{90 * time.Minute}, []any{value.Time{Micros: 90 * 60 * 1e6}}},
		{"TIMESTAMP", []any{day}, []any{value.Timestamp{Micros: day.UnixMicro()}}},
		{"TIMESTAMP WITH TIME ZONE", []any{day}, []any{value.TimestampTZ{Micros: day.UnixMicro()}}},
		{"TIMESTAMP_S", []any{day}, []any{value.TimestampS{Seconds: day.Unix()}}},
		{"TIMESTAMP_MS", []any{day}, []any{value.TimestampMS{Millis: day.UnixMilli()}}},
		{"TIMESTAMP_NS", []any{day}, []any{value.TimestampNS{Nanos: day.UnixNano()}}},
		{"INTERVAL", []any{value.Interval{Months: -1, Days: 2, Micros: 3}, time.Second},
			[]any{value.Interval{Months: -1, Days: 2, Micros: 3}, value.Interval{Micros: 1e6}}},
		{"VARCHAR", []any{"", "héllo", nil}, []any{"", "héllo", nil}},
		{"BLOB", []any{[]byte{0, 1, 2}, "xyz"}, []any{[]byte{0, 1, 2}, []byte("xyz")}},
		{"BIT", []any{"10110", []bool{true, false}}, []any{value.Bit{Data: []byte{3, 0xf6}}, value.Bit{Data: []byte{6, 0xfe}}}},
		{"VARINT", []any{0, huge}, []any{big.NewInt(0), huge}},
		{"DECIMAL(9,2)", []any{"-12.5", 3}, []any{
			value.Decimal{Width: 9, Scale: 2, Value: value.HugeIntFromInt64(-1250)},
			value.Decimal{Width: 9, Scale: 2, Value: value.HugeIntFromInt64(300)},
		}},
		{"ENUM('a', 'b')", []any{"b", nil, "a"}, []any{"b", nil, "a"}},
	} {
		t.Run(tc.typ, func(t *testing.T) {
			e := newEngine(t, nil)
			_, r := encode(t, e, logicaltype.MustParse(tc.typ), tc.in...)
			got, err := vector.ToArray(r)
			require.NoError(t, err)
			require.Equal(t, len(tc.want), len(got))
			for i := range got {
				require.Truef(t, value.Equal(tc.want[i], got[i]), "row %d: want %s, got %s",
					i, value.Format(tc.want[i]), value.Format(got[i]))
				require.Equal(t, tc.want[i] != nil, r.Valid(i))
			}
		})
	}
}

func TestIntegerLayout(t *testing.T) {
	e := newEngine(t, nil)
	raw, r := encode(t, e, logicaltype.Integer, 42, nil, -7)
	require.Equal(t, []byte{
		0x2a, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0xf9, 0xff, 0xff, 0xff,
	}, raw.Data())
	require.Equal(t, uint64(0b101), raw.Validity()[0]&0b111)

	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{int32(42), nil, int32(-7)}, vals)
}

func TestTimeTZLayout(t *testing.T) {
	e := newEngine(t, nil)
	tz := value.TimeTZ{Micros: 0, Offset: -57599}
	raw, r := encode(t, e, logicaltype.TimeTZ, tz)
	require.Equal(t, uint64(115198), binary.LittleEndian.Uint64(raw.Data()))
	v, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, tz, v)
}

func TestEnumIndexWidth(t *testing.T) {
	values := make([]string, 300)
	for i := range values {
		values[i] = fmt.Sprintf("v%d", i)
	}
	typ := logicaltype.Must(logicaltype.Enum(values))
	require.Equal(t, logicaltype.KindUSmallInt, typ.EnumIndexKind())

	e := newEngine(t, nil)
	raw, r := encode(t, e, typ, "v299", "v0")
	require.Equal(t, 2, r.(*vector.Enum).IndexWidth())
	require.Equal(t, []byte{0x2b, 0x01, 0x00, 0x00}, raw.Data())
	idx, err := r.(*vector.Enum).Index(0)
	require.NoError(t, err)
	require.Equal(t, 299, int(idx))

	w, err := vector.Create(e.Env(), raw, 2)
	require.NoError(t, err)
	requireMark(t, w.Set(0, "v300"), base.ErrOutOfRange)
	requireMark(t, w.Set(0, 1), base.ErrTypeMismatch)

	// An index past the dictionary is a corrupt layout.
	binary.LittleEndian.PutUint16(raw.Data(), 300)
	_, err = r.Get(0)
	requireMark(t, err, base.ErrCorruptLayout)
}

func TestStringInlineBoundary(t *testing.T) {
	twelve := "ab\x00cd\x00ef\x00ghi"
	thirteen := twelve + "j"
	require.Len(t, twelve, 12)

	e := newEngine(t, nil)
	raw, r := encode(t, e, logicaltype.Varchar, twelve, thirteen)
	cells := raw.Data()
	require.Equal(t, uint32(12), binary.LittleEndian.Uint32(cells[0:4]))
	require.Equal(t, []byte(twelve), cells[4:16])
	require.Equal(t, uint32(13), binary.LittleEndian.Uint32(cells[16:20]))
	require.Equal(t, []byte(thirteen[:4]), cells[20:24])

	blocks, size := e.HeapStats()
	require.Equal(t, 1, blocks)
	require.Equal(t, int64(13), size)

	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{twelve, thirteen}, vals)

	p, err := r.(*vector.Strings).Payload(1)
	require.NoError(t, err)
	require.Equal(t, []byte(thirteen), p)

	// A prefix that disagrees with the heap is detected.
	cells[20] ^= 0xff
	r, err = vector.Borrow(e.Env(), raw, 2)
	require.NoError(t, err)
	_, err = r.Get(1)
	requireMark(t, err, base.ErrCorruptLayout)

	// So is a pointer past the heap.
	cells[20] ^= 0xff
	binary.LittleEndian.PutUint64(cells[24:32], 7<<32)
	r, err = vector.Borrow(e.Env(), raw, 2)
	require.NoError(t, err)
	_, err = r.Get(1)
	requireMark(t, err, base.ErrCorruptLayout)
}

func TestVarcharRejectsInvalidUTF8(t *testing.T) {
	e := newEngine(t, nil)
	raw, err := e.NewVector(logicaltype.Varchar, 1)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 1)
	require.NoError(t, err)
	requireMark(t, w.Set(0, "\xff"), base.ErrTypeMismatch)
	require.NoError(t, w.Set(0, []byte("ok")))
	requireMark(t, w.Set(0, 12), base.ErrTypeMismatch)
}

func TestDecimalWidths(t *testing.T) {
	for _, tc := range []struct {
		width, stride int
	}{
		{4, 2}, {9, 4}, {18, 8}, {38, 16},
	} {
		t.Run(fmt.Sprint(tc.width), func(t *testing.T) {
			stride, err := vector.DecimalStride(tc.width)
			require.NoError(t, err)
			require.Equal(t, tc.stride, stride)

			scale := 1
			typ := logicaltype.Must(logicaltype.Decimal(tc.width, scale))
			hi := new(big.Int).Sub(value.Pow10(tc.width), big.NewInt(1))
			lo := new(big.Int).Neg(hi)
			maxDec, err := value.NewDecimal(tc.width, scale, hi)
			require.NoError(t, err)
			minDec, err := value.NewDecimal(tc.width, scale, lo)
			require.NoError(t, err)

			e := newEngine(t, nil)
			raw, r := encode(t, e, typ, maxDec, minDec, nil, "0.1")
			require.Len(t, raw.Data(), 4*tc.stride)
			vals, err := vector.ToArray(r)
			require.NoError(t, err)
			require.Equal(t, maxDec, vals[0])
			require.Equal(t, minDec, vals[1])
			require.Nil(t, vals[2])
			require.Equal(t, "0.1", vals[3].(value.Decimal).String())

			w, err := vector.Create(e.Env(), raw, 4)
			require.NoError(t, err)
			tooBig := new(big.Int).Add(hi, big.NewInt(1))
			requireMark(t, w.Set(0, value.Decimal{
				Width: uint8(tc.width), Scale: uint8(scale), Value: mustHuge(t, tooBig),
			}), base.ErrOutOfRange)
			requireMark(t, w.Set(0, "0.05"), base.ErrOutOfRange)
			other, err := value.DecimalFromInt64(tc.width, 0, 1)
			require.NoError(t, err)
			requireMark(t, w.Set(0, other), base.ErrTypeMismatch)
			// Failed writes leave the row unchanged.
			v, err := w.Get(0)
			require.NoError(t, err)
			require.Equal(t, maxDec, v)
		})
	}
	_, err := vector.DecimalStride(39)
	requireMark(t, err, base.ErrOutOfRange)
	_, err = vector.DecimalStride(0)
	requireMark(t, err, base.ErrOutOfRange)
}

func mustHuge(t *testing.T, b *big.Int) value.HugeInt {
	h, err := value.HugeIntFromBig(b)
	require.NoError(t, err)
	return h
}

func TestIntegerRange(t *testing.T) {
	e := newEngine(t, nil)
	for _, tc := range []struct {
		typ string
		bad any
	}{
		{"TINYINT", 128},
		{"SMALLINT", -32769},
		{"INTEGER", int64(math.MaxInt32) + 1},
		{"UTINYINT", -1},
		{"UINTEGER", uint64(math.MaxUint32) + 1},
		{"UBIGINT", new(big.Int).Lsh(big.NewInt(1), 64)},
		{"BIGINT", uint64(math.MaxUint64)},
	} {
		raw, err := e.NewVector(logicaltype.MustParse(tc.typ), 1)
		require.NoError(t, err)
		w, err := vector.Create(e.Env(), raw, 1)
		require.NoError(t, err)
		requireMark(t, w.Set(0, tc.bad), base.ErrOutOfRange)
		requireMark(t, w.Set(0, "1"), base.ErrTypeMismatch)
	}
}

func TestNestedLists(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.MustParse("LIST(LIST(INTEGER))")
	in := value.List{value.List{}, value.List{1, 2, nil}, nil}
	raw, r := encode(t, e, typ, in, nil, []any{})
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.List{value.List{}, value.List{int32(1), int32(2), nil}, nil},
		nil,
		value.List{},
	}, vals)

	// Three inner lists, three integers.
	require.Equal(t, 3, raw.ListSize())
	l := r.(*vector.List)
	off, n, err := l.Entry(0)
	require.NoError(t, err)
	require.Equal(t, [2]uint64{0, 3}, [2]uint64{off, n})
	off, n, err = l.Entry(2)
	require.NoError(t, err)
	require.Equal(t, [2]uint64{3, 0}, [2]uint64{off, n})
	inner := l.Child().(*vector.List)
	require.Equal(t, 3, inner.Len())
	require.Equal(t, 3, inner.Child().Len())

	// A corrupt entry is detected.
	binary.LittleEndian.PutUint64(raw.Data()[8:16], 4)
	_, err = r.Get(0)
	requireMark(t, err, base.ErrCorruptLayout)
}

func TestListUpdate(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.List(logicaltype.Varchar)
	raw, _ := encode(t, e, typ, []any{"a", "long enough for the heap"}, []any{"b"}, nil)

	w, err := vector.Create(e.Env(), raw, 3)
	require.NoError(t, err)
	require.NoError(t, w.Set(1, []any{"c", "d", "e"}))
	require.Equal(t, 1, w.(*vector.List).Pending())
	// Staged rows are visible before Flush.
	v, err := w.Get(1)
	require.NoError(t, err)
	require.Equal(t, value.List{"c", "d", "e"}, v)
	require.NoError(t, w.Flush())
	require.Equal(t, 0, w.(*vector.List).Pending())

	r, err := vector.Borrow(e.Env(), raw, 3)
	require.NoError(t, err)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.List{"a", "long enough for the heap"},
		value.List{"c", "d", "e"},
		nil,
	}, vals)
	require.Equal(t, 5, raw.ListSize())

	requireMark(t, w.Set(0, []any{1}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, "abc"), base.ErrTypeMismatch)
}

func TestFlushIdempotent(t *testing.T) {
	m := memengine.NewMetrics()
	e := newEngine(t, &memengine.Options{Metrics: m})
	raw, err := e.NewVector(logicaltype.List(logicaltype.Varchar), 2)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 2)
	require.NoError(t, err)
	require.NoError(t, w.Set(0, []any{"x", "a payload past the inline limit"}))
	require.NoError(t, w.Set(1, []any{"a payload past the inline limit"}))
	require.NoError(t, w.Flush())

	assigned := counterValue(t, m.StringAssignments)
	require.Equal(t, float64(3), assigned)
	require.Equal(t, float64(1), counterValue(t, m.HeapDedupHits))
	blocks, size := e.HeapStats()
	require.Equal(t, 1, blocks)
	require.Equal(t, int64(len("a payload past the inline limit")), size)

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Flush())
	}
	require.Equal(t, assigned, counterValue(t, m.StringAssignments))

	s, err := vector.Create(e.Env(), raw, 0)
	require.NoError(t, err)
	require.NoError(t, s.Flush())
	require.Equal(t, assigned, counterValue(t, m.StringAssignments))
}

func TestBorrowIsReadOnly(t *testing.T) {
	e := newEngine(t, nil)
	raw, r := encode(t, e, logicaltype.Varchar, "a")
	requireMark(t, r.Set(0, "b"), base.ErrReadOnly)
	s, err := r.Slice(0, 1)
	require.NoError(t, err)
	requireMark(t, s.Set(0, nil), base.ErrReadOnly)

	vector.MakeWritable(s)
	require.NoError(t, r.Set(0, "b"))
	require.NoError(t, r.Flush())
	r2, err := vector.Borrow(e.Env(), raw, 1)
	require.NoError(t, err)
	v, err := r2.Get(0)
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestRowBounds(t *testing.T) {
	e := newEngine(t, nil)
	raw, err := e.NewVector(logicaltype.Integer, 2)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 2)
	require.NoError(t, err)
	_, err = w.Get(2)
	requireMark(t, err, base.ErrOutOfRange)
	requireMark(t, w.Set(-1, 1), base.ErrOutOfRange)
	_, err = w.Slice(1, 2)
	requireMark(t, err, base.ErrOutOfRange)
	require.Panics(t, func() { w.Valid(2) })
	requireMark(t, vector.SetAll(w, []any{1, 2, 3}), base.ErrOutOfRange)
}

func TestSlice(t *testing.T) {
	for _, typ := range []string{
		"INTEGER", "VARCHAR", "DECIMAL(4,0)", "INTEGER[]", "STRUCT(a INTEGER, b VARCHAR)",
		"INTEGER[2]", "UNION(n INTEGER, s VARCHAR)",
	} {
		t.Run(typ, func(t *testing.T) {
			lt := logicaltype.MustParse(typ)
			e := newEngine(t, nil)
			raw, err := e.NewVector(lt, 10)
			require.NoError(t, err)
			w, err := vector.Create(e.Env(), raw, 10)
			require.NoError(t, err)
			for i := 0; i < 10; i++ {
				if i%3 == 2 {
					require.NoError(t, w.Set(i, nil))
					continue
				}
				require.NoError(t, w.Set(i, sample(lt, i)))
			}
			require.NoError(t, w.Flush())

			for _, bounds := range [][2]int{{0, 10}, {0, 0}, {3, 4}, {9, 1}} {
				s, err := w.Slice(bounds[0], bounds[1])
				require.NoError(t, err)
				require.Equal(t, bounds[1], s.Len())
				for i := 0; i < s.Len(); i++ {
					want, err := w.Get(bounds[0] + i)
					require.NoError(t, err)
					got, err := s.Get(i)
					require.NoError(t, err)
					require.True(t, value.Equal(want, got), "%s vs %s", value.Format(want), value.Format(got))
					require.Equal(t, w.Valid(bounds[0]+i), s.Valid(i))
				}
			}

			// Writes through a slice of a slice land in the parent.
			s, err := w.Slice(2, 6)
			require.NoError(t, err)
			ss, err := s.Slice(1, 2)
			require.NoError(t, err)
			require.NoError(t, ss.Set(1, sample(lt, 100)))
			require.NoError(t, ss.Flush())
			r, err := vector.Borrow(e.Env(), raw, 10)
			require.NoError(t, err)
			got, err := r.Get(4)
			require.NoError(t, err)
			want, err := vector.Normalize(r, sample(lt, 100))
			require.NoError(t, err)
			require.True(t, value.Equal(want, got), "%s vs %s", value.Format(want), value.Format(got))
		})
	}
}

// sample returns a distinct value of typ for each i.
func sample(typ *logicaltype.T, i int) any {
	switch typ.Kind() {
	case logicaltype.KindInteger:
		return i
	case logicaltype.KindVarchar:
		return fmt.Sprintf("row %d with a payload that is not inline", i)
	case logicaltype.KindDecimal:
		return i
	case logicaltype.KindList:
		return []any{i, nil, i * 2}[:i%3+1]
	case logicaltype.KindStruct:
		return map[string]any{"a": i, "b": fmt.Sprint(i)}
	case logicaltype.KindArray:
		return []any{i, -i}
	case logicaltype.KindUnion:
		if i%2 == 0 {
			return value.Union{Tag: "n", Value: i}
		}
		return value.Union{Tag: "s", Value: fmt.Sprint(i)}
	}
	panic(typ.String())
}

func TestBoolWidths(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			e := newEngine(t, &memengine.Options{BoolWidth: width})
			require.Equal(t, width, e.Env().BoolWidth())
			raw, r := encode(t, e, logicaltype.Boolean, true, false, nil, true)
			require.Len(t, raw.Data(), 4*width)
			require.Equal(t, byte(1), raw.Data()[0])
			require.Equal(t, byte(1), raw.Data()[3*width])

			// Any non-zero cell reads as true.
			raw.Data()[width+width-1] = 0x80
			vals, err := vector.ToArray(r)
			require.NoError(t, err)
			require.Equal(t, []any{true, true, nil, true}, vals)
		})
	}
	_, err := memengine.New(&memengine.Options{BoolWidth: 3})
	requireMark(t, err, base.ErrUnsupportedType)
}

func TestStruct(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.MustParse("STRUCT(a INTEGER, b VARCHAR[])")
	_, r := encode(t, e, typ,
		value.Struct{{Name: "a", Value: 1}, {Name: "b", Value: []any{"x"}}},
		map[string]any{"b": []any{}},
		nil,
	)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.Struct{{Name: "a", Value: int32(1)}, {Name: "b", Value: value.List{"x"}}},
		value.Struct{{Name: "a", Value: nil}, {Name: "b", Value: value.List{}}},
		nil,
	}, vals)

	// A null struct row nulls every entry.
	s := r.(*vector.Struct)
	require.False(t, s.Child(0).Valid(2))
	require.False(t, s.ChildByName("b").Valid(2))
	require.Nil(t, s.ChildByName("c"))

	raw, err := e.NewVector(typ, 1)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 1)
	require.NoError(t, err)
	requireMark(t, w.Set(0, map[string]any{"c": 1}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, value.Struct{{Name: "a", Value: 1}, {Name: "a", Value: 2}}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, map[string]any{"a": "x"}), base.ErrTypeMismatch)
}

func TestMap(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.MustParse("MAP(VARCHAR, INTEGER)")
	raw, r := encode(t, e, typ,
		value.Map{{Key: "z", Value: 1}, {Key: "a", Value: nil}},
		map[string]any{"k2": 2, "k1": 1},
		nil,
		value.Map{},
	)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.Map{{Key: "z", Value: int32(1)}, {Key: "a", Value: nil}},
		value.Map{{Key: "k1", Value: int32(1)}, {Key: "k2", Value: int32(2)}},
		nil,
		value.Map{},
	}, vals)
	require.Equal(t, 4, raw.ListSize())
	require.Equal(t, 4, r.(*vector.Map).Entries().Len())

	w, err := vector.Create(e.Env(), raw, 4)
	require.NoError(t, err)
	requireMark(t, w.Set(0, value.Map{{Key: nil, Value: 1}}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, value.List{1}), base.ErrTypeMismatch)
}

func TestArray(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.MustParse("INTEGER[2][2]")
	_, r := encode(t, e, typ,
		[]any{[]any{1, 2}, []any{3, nil}},
		nil,
		value.Array{nil, value.Array{5, 6}},
	)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.Array{value.Array{int32(1), int32(2)}, value.Array{int32(3), nil}},
		nil,
		value.Array{nil, value.Array{int32(5), int32(6)}},
	}, vals)

	raw, err := e.NewVector(typ, 1)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 1)
	require.NoError(t, err)
	requireMark(t, w.Set(0, []any{[]any{1, 2}}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, []any{[]any{1, 2}, []any{1, 2, 3}}), base.ErrTypeMismatch)
}

func TestUnion(t *testing.T) {
	e := newEngine(t, nil)
	typ := logicaltype.MustParse("UNION(n INTEGER, s VARCHAR)")
	_, r := encode(t, e, typ,
		value.Union{Tag: "s", Value: "x"},
		nil,
		value.Union{Tag: "n", Value: 7},
		value.Union{Tag: "n", Value: nil},
	)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		value.Union{Tag: "s", Value: "x"},
		nil,
		value.Union{Tag: "n", Value: int32(7)},
		value.Union{Tag: "n", Value: nil},
	}, vals)

	u := r.(*vector.Union)
	tag, err := u.Tag(0)
	require.NoError(t, err)
	require.Equal(t, 1, tag)
	// Inactive members are null.
	require.False(t, u.Member(0).Valid(0))
	require.False(t, u.Member(1).Valid(2))

	raw, err := e.NewVector(typ, 1)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 1)
	require.NoError(t, err)
	requireMark(t, w.Set(0, value.Union{Tag: "q", Value: 1}), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, 1), base.ErrTypeMismatch)
	requireMark(t, w.Set(0, value.Union{Tag: "n", Value: "x"}), base.ErrTypeMismatch)
}

// typedRaw is a RawVector that only reports a type. Creating a codec over a
// type with no layout must fail before any buffer is touched.
type typedRaw struct {
	vector.RawVector
	typ *logicaltype.T
}

func (r typedRaw) Type() *logicaltype.T { return r.typ }

func TestUnsupportedTypes(t *testing.T) {
	e := newEngine(t, nil)
	for _, typ := range []*logicaltype.T{logicaltype.Any, logicaltype.SQLNull, logicaltype.Invalid} {
		_, err := e.NewVector(typ, 1)
		requireMark(t, err, base.ErrUnsupportedType)

		_, err = vector.Create(e.Env(), typedRaw{typ: typ}, 1)
		requireMark(t, err, base.ErrUnsupportedType)
		_, err = vector.Borrow(e.Env(), typedRaw{typ: typ}, 1)
		requireMark(t, err, base.ErrUnsupportedType)
	}
}

func TestDecimalLayout(t *testing.T) {
	for _, tc := range []struct {
		typ  string
		in   string
		want []byte
	}{
		{"DECIMAL(4,1)", "-1.5", []byte{0xf1, 0xff}},
		{"DECIMAL(9,2)", "-0.01", []byte{0xff, 0xff, 0xff, 0xff}},
		{"DECIMAL(18,0)", "258", []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}},
	} {
		e := newEngine(t, nil)
		raw, r := encode(t, e, logicaltype.MustParse(tc.typ), tc.in)
		require.Equal(t, tc.want, raw.Data(), tc.typ)
		v, err := r.Get(0)
		require.NoError(t, err)
		require.Equal(t, tc.in, v.(value.Decimal).String())
	}
}

func TestBitRejectsMalformedValue(t *testing.T) {
	e := newEngine(t, nil)
	raw, err := e.NewVector(logicaltype.Bit, 1)
	require.NoError(t, err)
	w, err := vector.Create(e.Env(), raw, 1)
	require.NoError(t, err)
	for _, b := range []value.Bit{{}, {Data: []byte{8, 0xff}}, {Data: []byte{2}}} {
		err := w.Set(0, b)
		requireMark(t, err, base.ErrTypeMismatch)
		require.False(t, errors.Is(err, base.ErrCorruptLayout))
	}
}

func TestFloatFromInteger(t *testing.T) {
	e := newEngine(t, nil)
	_, r := encode(t, e, logicaltype.Double, int64(1<<53), -3)
	vals, err := vector.ToArray(r)
	require.NoError(t, err)
	require.Equal(t, []any{float64(1 << 53), float64(-3)}, vals)

	for _, tc := range []struct {
		typ *logicaltype.T
		in  any
	}{
		{logicaltype.Double, int64(1<<53 + 1)},
		{logicaltype.Double, int64(math.MaxInt64)},
		{logicaltype.Float, int32(1<<24 + 1)},
	} {
		raw, err := e.NewVector(tc.typ, 1)
		require.NoError(t, err)
		w, err := vector.Create(e.Env(), raw, 1)
		require.NoError(t, err)
		requireMark(t, w.Set(0, tc.in), base.ErrOutOfRange)
	}
}
