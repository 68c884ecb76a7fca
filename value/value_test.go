// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHugeInt(t *testing.T) {
	for _, s := range []string{
		"0", "1", "-1", "18446744073709551616", "-18446744073709551616",
		"170141183460469231731687303715884105727",
		"-170141183460469231731687303715884105728",
	} {
		b, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)
		h, err := HugeIntFromBig(b)
		require.NoError(t, err)
		require.Equal(t, s, h.String())
		require.Zero(t, b.Cmp(h.Big()))
	}
	require.Equal(t, HugeInt{Lo: math.MaxUint64, Hi: -1}, HugeIntFromInt64(-1))
	require.Equal(t, HugeInt{Lo: 5}, HugeIntFromInt64(-5).Neg())
	require.Equal(t, -1, HugeIntFromInt64(-5).Sign())

	tooBig := new(big.Int).Lsh(big.NewInt(1), 127)
	_, err := HugeIntFromBig(tooBig)
	require.True(t, errors.Is(err, base.ErrOutOfRange))

	u, err := UHugeIntFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
	require.NoError(t, err)
	require.Equal(t, UHugeInt{Lo: math.MaxUint64, Hi: math.MaxUint64}, u)
	require.Equal(t, "340282366920938463463374607431768211455", u.String())
	_, err = UHugeIntFromBig(big.NewInt(-1))
	require.True(t, errors.Is(err, base.ErrOutOfRange))
}

func TestDecimal(t *testing.T) {
	d, err := DecimalFromInt64(9, 2, 12345)
	require.NoError(t, err)
	require.Equal(t, "123.45", d.String())
	require.InDelta(t, 123.45, d.Float64(), 1e-9)

	d, err = DecimalFromInt64(9, 2, -5)
	require.NoError(t, err)
	require.Equal(t, "-0.05", d.String())

	d, err = DecimalFromInt64(4, 0, -9999)
	require.NoError(t, err)
	require.Equal(t, "-9999", d.String())

	_, err = DecimalFromInt64(4, 0, 10000)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
	_, err = DecimalFromInt64(39, 0, 1)
	require.True(t, errors.Is(err, base.ErrOutOfRange))

	max38 := new(big.Int).Sub(Pow10(38), big.NewInt(1))
	d, err = NewDecimal(38, 38, max38)
	require.NoError(t, err)
	require.Equal(t, "0.99999999999999999999999999999999999999", d.String())

	d, err = ParseDecimal("-12.5", 9, 2)
	require.NoError(t, err)
	require.Equal(t, HugeIntFromInt64(-1250), d.Value)
	require.Equal(t, "-12.50", d.String())

	_, err = ParseDecimal("1.234", 9, 2)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
	_, err = ParseDecimal("1x", 9, 2)
	require.True(t, errors.Is(err, base.ErrTypeMismatch))
}

func TestTimeTZ(t *testing.T) {
	for _, tz := range []TimeTZ{
		{Micros: 0, Offset: MinOffset},
		{Micros: 0, Offset: MaxOffset},
		{Micros: MaxMicros, Offset: MinOffset},
		{Micros: 12 * 3600 * 1e6, Offset: 0},
	} {
		require.NoError(t, tz.Check())
		require.Equal(t, tz, TimeTZFromBits(tz.Bits()))
	}
	// The largest offset encodes to zero.
	require.Equal(t, uint64(0), TimeTZ{Offset: MaxOffset}.Bits())
	require.Equal(t, uint64(2*MaxOffset), TimeTZ{Offset: MinOffset}.Bits())

	require.Error(t, TimeTZ{Offset: MaxOffset + 1}.Check())
	require.Error(t, TimeTZ{Offset: MinOffset - 1}.Check())
	require.Error(t, TimeTZ{Micros: MaxMicros + 1}.Check())

	require.Equal(t, "12:00:00+05:30", TimeTZ{Micros: 12 * 3600 * 1e6, Offset: 19800}.String())
	require.Equal(t, "00:00:00-01", TimeTZ{Offset: -3600}.String())
	require.Equal(t, "00:00:00+15:59:59", TimeTZ{Offset: MaxOffset}.String())
}

func TestDateTimeStrings(t *testing.T) {
	tests := []struct {
		v    interface{ String() string }
		want string
	}{
		{Date{Days: 0}, "1970-01-01"},
		{Date{Days: -1}, "1969-12-31"},
		{Date{Days: -719528}, "0001-01-01 (BC)"},
		{DatePosInf, "infinity"},
		{DateNegInf, "-infinity"},
		{Time{Micros: 3723000000}, "01:02:03"},
		{Time{Micros: 1}, "00:00:00.000001"},
		{Timestamp{Micros: 1}, "1970-01-01 00:00:00.000001"},
		{Timestamp{Micros: -1}, "1969-12-31 23:59:59.999999"},
		{Timestamp{Micros: TimestampPosInf}, "infinity"},
		{TimestampTZ{Micros: 0}, "1970-01-01 00:00:00+00"},
		{TimestampS{Seconds: 86400}, "1970-01-02 00:00:00"},
		{TimestampMS{Millis: -1}, "1969-12-31 23:59:59.999"},
		{TimestampNS{Nanos: 1500000000}, "1970-01-01 00:00:01.5"},
		{Interval{}, "00:00:00"},
		{Interval{Months: 14, Days: 3, Micros: 1500000}, "1 year 2 months 3 days 00:00:01.5"},
		{Interval{Months: -1, Days: -2, Micros: -60000000}, "-1 month -2 days -00:01:00"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.v.String())
	}
}

func TestTimeConversions(t *testing.T) {
	tm := time.Date(2024, 2, 29, 13, 14, 15, 123456000, time.UTC)
	require.Equal(t, "2024-02-29", DateFromTime(tm).String())
	require.Equal(t, "2024-02-29 13:14:15.123456", TimestampFromTime(tm).String())
	require.True(t, tm.Equal(TimestampFromTime(tm).Time()))
	require.True(t, tm.Equal(TimestampTZFromTime(tm).Time()))
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), DateFromTime(tm).Time())
	require.Equal(t, Date{Days: -1}, DateFromTime(time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestBit(t *testing.T) {
	b, err := ParseBit("0101101")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0xAD}, b.Data)
	require.NoError(t, b.Check())
	require.Equal(t, 7, b.Len())
	require.Equal(t, 1, b.Padding())
	require.True(t, b.Get(1))
	require.False(t, b.Get(0))
	require.Equal(t, "0101101", b.String())
	require.Equal(t, []bool{false, true, false, true, true, false, true}, b.Bools())

	b, err = ParseBit("00000000")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0}, b.Data)

	empty := BitFromBools(nil)
	require.Equal(t, []byte{0}, empty.Data)
	require.Equal(t, 0, empty.Len())
	require.Equal(t, "", empty.String())

	_, err = ParseBit("012")
	require.True(t, errors.Is(err, base.ErrTypeMismatch))
	require.ErrorContains(t, Bit{Data: []byte{8, 0}}.Check(), "padding 8 exceeds 7")
	require.Error(t, Bit{}.Check())
	require.Error(t, Bit{Data: []byte{3}}.Check())
}

func TestUUID(t *testing.T) {
	u := uuid.MustParse("00000000-0000-0000-0000-000000000000")
	require.Equal(t, HugeInt{Hi: math.MinInt64}, UUIDToHugeInt(u))

	u = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	require.Equal(t, HugeInt{Lo: math.MaxUint64, Hi: math.MaxInt64}, UUIDToHugeInt(u))

	u = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.Equal(t, u, UUIDFromHugeInt(UUIDToHugeInt(u)))
}

func TestFormat(t *testing.T) {
	require.Equal(t, "NULL", Format(nil))
	require.Equal(t, "'it''s'", Format("it's"))
	require.Equal(t, `\x00a\x27`, Format([]byte{0, 'a', '\''}))
	require.Equal(t, "[1, NULL, 'a']", Format(List{int32(1), nil, "a"}))
	require.Equal(t, "[]", List{}.String())
	require.Equal(t, "{'a': 1, 'b': NULL}", Struct{{Name: "a", Value: int64(1)}, {Name: "b"}}.String())
	require.Equal(t, "{'k'=2}", Map{{Key: "k", Value: int64(2)}}.String())
	require.Equal(t, "5", Union{Tag: "n", Value: int32(5)}.String())
	require.Equal(t, "NULL", Union{Tag: "n"}.String())
	require.Equal(t, "-12", Format(big.NewInt(-12)))
	require.Equal(t, "1.5", Format(float32(1.5)))
	require.Equal(t, "true", Format(true))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(big.NewInt(5), new(big.Int).SetBytes([]byte{5})))
	require.True(t, Equal(List{nil, big.NewInt(0)}, List{nil, new(big.Int)}))
	require.False(t, Equal(List{}, nil))
	require.False(t, Equal(List{int32(1)}, List{int64(1)}))
	require.True(t, Equal(
		Map{{Key: "a", Value: Struct{{Name: "x", Value: []byte("b")}}}},
		Map{{Key: "a", Value: Struct{{Name: "x", Value: []byte("b")}}}},
	))
	require.False(t, Equal(Union{Tag: "a", Value: int32(1)}, Union{Tag: "b", Value: int32(1)}))
	v, ok := Struct{{Name: "x", Value: int8(3)}}.Get("x")
	require.True(t, ok)
	require.Equal(t, int8(3), v)
}
