// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/internal/invariants"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// fixedCodec describes a fixed-width scalar stored as T in cells of width
// bytes.
type fixedCodec[T any] struct {
	width  int
	load   func(b []byte) T
	store  func(b []byte, v T)
	decode func(T) any
	encode func(v any) (T, error)
}

// Fixed is a vector of fixed-width scalars whose storage type is T.
type Fixed[T any] struct {
	common
	codec *fixedCodec[T]
}

var _ Vector = (*Fixed[int32])(nil)

func newFixed[T any](
	t *tree, raw RawVector, typ *logicaltype.T, n int, codec *fixedCodec[T],
) *Fixed[T] {
	return &Fixed[T]{common: makeCommon(t, raw, typ, n), codec: codec}
}

// Width returns the width in bytes of one cell.
func (f *Fixed[T]) Width() int { return f.codec.width }

// At returns the stored value of row i, ignoring validity.
func (f *Fixed[T]) At(i int) (T, error) {
	var zero T
	if err := f.checkRow(i); err != nil {
		return zero, err
	}
	b, err := f.cell(i, f.codec.width)
	if err != nil {
		return zero, err
	}
	return f.codec.load(b), nil
}

// Put stores v into row i and marks the row valid.
func (f *Fixed[T]) Put(i int, v T) error {
	if err := f.checkSet(i); err != nil {
		return err
	}
	b, err := f.cell(i, f.codec.width)
	if err != nil {
		return err
	}
	f.codec.store(b, v)
	f.validity.SetValid(i, true)
	return nil
}

// Get implements Vector.
func (f *Fixed[T]) Get(i int) (any, error) {
	if err := f.checkRow(i); err != nil {
		return nil, err
	}
	if !f.validity.Valid(i) {
		return nil, nil
	}
	b, err := f.cell(i, f.codec.width)
	if err != nil {
		return nil, err
	}
	return f.codec.decode(f.codec.load(b)), nil
}

// Set implements Vector.
func (f *Fixed[T]) Set(i int, v any) error {
	if err := f.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		f.validity.SetValid(i, false)
		return nil
	}
	x, err := f.codec.encode(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", f.typ)
	}
	return f.Put(i, x)
}

func (f *Fixed[T]) normalize(v any) (any, error) {
	x, err := f.codec.encode(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", f.typ)
	}
	return f.codec.decode(x), nil
}

// Slice implements Vector.
func (f *Fixed[T]) Slice(offset, n int) (Vector, error) {
	c, err := f.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &Fixed[T]{common: c, codec: f.codec}, nil
}

// Flush implements Vector.
func (f *Fixed[T]) Flush() error {
	f.validity.Flush()
	return nil
}

func loadUint(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		panic(errors.AssertionFailedf("unsupported width %d", width))
	}
}

func storeUint(b []byte, width int, v uint64) {
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	default:
		panic(errors.AssertionFailedf("unsupported width %d", width))
	}
}

func identity[T any](v T) any { return v }

func intCodec[T constraints.Signed](width int) *fixedCodec[T] {
	if invariants.Enabled && bitSize[T]() != width*8 {
		panic(errors.AssertionFailedf("width %d does not match %d-bit type", width, bitSize[T]()))
	}
	return &fixedCodec[T]{
		width:  width,
		load:   func(b []byte) T { return T(loadUint(b, width)) },
		store:  func(b []byte, v T) { storeUint(b, width, uint64(v)) },
		decode: identity[T],
		encode: convertSigned[T],
	}
}

func uintCodec[T constraints.Unsigned](width int) *fixedCodec[T] {
	if invariants.Enabled && bitSize[T]() != width*8 {
		panic(errors.AssertionFailedf("width %d does not match %d-bit type", width, bitSize[T]()))
	}
	return &fixedCodec[T]{
		width:  width,
		load:   func(b []byte) T { return T(loadUint(b, width)) },
		store:  func(b []byte, v T) { storeUint(b, width, uint64(v)) },
		decode: identity[T],
		encode: convertUnsigned[T],
	}
}

// boolCodec stores booleans in cells of the engine's probed width. Any
// non-zero cell reads as true; true is written as 1.
func boolCodec(width int) *fixedCodec[bool] {
	return &fixedCodec[bool]{
		width: width,
		load:  func(b []byte) bool { return loadUint(b, width) != 0 },
		store: func(b []byte, v bool) {
			var x uint64
			if v {
				x = 1
			}
			storeUint(b, width, x)
		},
		decode: identity[bool],
		encode: func(v any) (bool, error) {
			b, ok := v.(bool)
			if !ok {
				return false, mismatch(v)
			}
			return b, nil
		},
	}
}

var float32Codec = &fixedCodec[float32]{
	width:  4,
	load:   func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
	store:  func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) },
	decode: identity[float32],
	encode: convertFloat[float32],
}

var float64Codec = &fixedCodec[float64]{
	width:  8,
	load:   func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
	store:  func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) },
	decode: identity[float64],
	encode: convertFloat[float64],
}

// 128-bit integers are stored low word first.
func loadHugeInt(b []byte) value.HugeInt {
	return value.HugeInt{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: int64(binary.LittleEndian.Uint64(b[8:16])),
	}
}

func storeHugeInt(b []byte, h value.HugeInt) {
	binary.LittleEndian.PutUint64(b[0:8], h.Lo)
	binary.LittleEndian.PutUint64(b[8:16], uint64(h.Hi))
}

var hugeIntCodec = &fixedCodec[value.HugeInt]{
	width:  16,
	load:   loadHugeInt,
	store:  storeHugeInt,
	decode: identity[value.HugeInt],
	encode: toHugeInt,
}

var uhugeIntCodec = &fixedCodec[value.UHugeInt]{
	width: 16,
	load: func(b []byte) value.UHugeInt {
		return value.UHugeInt{
			Lo: binary.LittleEndian.Uint64(b[0:8]),
			Hi: binary.LittleEndian.Uint64(b[8:16]),
		}
	},
	store: func(b []byte, u value.UHugeInt) {
		binary.LittleEndian.PutUint64(b[0:8], u.Lo)
		binary.LittleEndian.PutUint64(b[8:16], u.Hi)
	},
	decode: identity[value.UHugeInt],
	encode: toUHugeInt,
}

var uuidCodec = &fixedCodec[value.HugeInt]{
	width:  16,
	load:   loadHugeInt,
	store:  storeHugeInt,
	decode: func(h value.HugeInt) any { return value.UUIDFromHugeInt(h) },
	encode: func(v any) (value.HugeInt, error) {
		switch t := v.(type) {
		case uuid.UUID:
			return value.UUIDToHugeInt(t), nil
		case [16]byte:
			return value.UUIDToHugeInt(t), nil
		case string:
			u, err := uuid.Parse(t)
			if err != nil {
				return value.HugeInt{}, base.TypeMismatchf("invalid UUID %q: %v", t, err)
			}
			return value.UUIDToHugeInt(u), nil
		default:
			return value.HugeInt{}, mismatch(v)
		}
	},
}

var dateCodec = &fixedCodec[int32]{
	width:  4,
	load:   func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
	store:  func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) },
	decode: func(v int32) any { return value.Date{Days: v} },
	encode: func(v any) (int32, error) {
		switch t := v.(type) {
		case value.Date:
			return t.Days, nil
		case time.Time:
			d := value.DateFromTime(t)
			if d.Time().Year() != t.Year() {
				return 0, base.OutOfRangef("%s is outside the DATE range", t)
			}
			return d.Days, nil
		default:
			return 0, mismatch(v)
		}
	},
}

func loadInt64(b []byte) int64     { return int64(binary.LittleEndian.Uint64(b)) }
func storeInt64(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }

var timeCodec = &fixedCodec[int64]{
	width:  8,
	load:   loadInt64,
	store:  storeInt64,
	decode: func(v int64) any { return value.Time{Micros: v} },
	encode: func(v any) (int64, error) {
		var micros int64
		switch t := v.(type) {
		case value.Time:
			micros = t.Micros
		case time.Duration:
			micros = t.Microseconds()
		default:
			return 0, mismatch(v)
		}
		if micros < 0 || micros > value.MaxMicros {
			return 0, base.OutOfRangef("TIME micros %d not in [0, %d]", micros, int64(value.MaxMicros))
		}
		return micros, nil
	},
}

var timeTZCodec = &fixedCodec[uint64]{
	width:  8,
	load:   func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) },
	store:  func(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) },
	decode: func(v uint64) any { return value.TimeTZFromBits(v) },
	encode: func(v any) (uint64, error) {
		t, ok := v.(value.TimeTZ)
		if !ok {
			return 0, mismatch(v)
		}
		if err := t.Check(); err != nil {
			return 0, err
		}
		return t.Bits(), nil
	},
}

// int64Codec builds a codec for a kind stored as an int64 count whose Go
// value type is V.
func int64Codec[V any](wrap func(int64) V, unwrap func(V) int64, fromTime func(time.Time) int64) *fixedCodec[int64] {
	return &fixedCodec[int64]{
		width:  8,
		load:   loadInt64,
		store:  storeInt64,
		decode: func(v int64) any { return wrap(v) },
		encode: func(v any) (int64, error) {
			switch t := v.(type) {
			case V:
				return unwrap(t), nil
			case time.Time:
				return fromTime(t), nil
			default:
				return 0, mismatch(v)
			}
		},
	}
}

var timestampCodec = int64Codec(
	func(v int64) value.Timestamp { return value.Timestamp{Micros: v} },
	func(v value.Timestamp) int64 { return v.Micros },
	time.Time.UnixMicro,
)

var timestampTZCodec = int64Codec(
	func(v int64) value.TimestampTZ { return value.TimestampTZ{Micros: v} },
	func(v value.TimestampTZ) int64 { return v.Micros },
	time.Time.UnixMicro,
)

var timestampSCodec = int64Codec(
	func(v int64) value.TimestampS { return value.TimestampS{Seconds: v} },
	func(v value.TimestampS) int64 { return v.Seconds },
	time.Time.Unix,
)

var timestampMSCodec = int64Codec(
	func(v int64) value.TimestampMS { return value.TimestampMS{Millis: v} },
	func(v value.TimestampMS) int64 { return v.Millis },
	time.Time.UnixMilli,
)

var timestampNSCodec = int64Codec(
	func(v int64) value.TimestampNS { return value.TimestampNS{Nanos: v} },
	func(v value.TimestampNS) int64 { return v.Nanos },
	time.Time.UnixNano,
)

// Intervals are stored as i32 months, i32 days, i64 micros.
var intervalCodec = &fixedCodec[value.Interval]{
	width: 16,
	load: func(b []byte) value.Interval {
		return value.Interval{
			Months: int32(binary.LittleEndian.Uint32(b[0:4])),
			Days:   int32(binary.LittleEndian.Uint32(b[4:8])),
			Micros: int64(binary.LittleEndian.Uint64(b[8:16])),
		}
	},
	store: func(b []byte, v value.Interval) {
		binary.LittleEndian.PutUint32(b[0:4], uint32(v.Months))
		binary.LittleEndian.PutUint32(b[4:8], uint32(v.Days))
		binary.LittleEndian.PutUint64(b[8:16], uint64(v.Micros))
	},
	decode: identity[value.Interval],
	encode: func(v any) (value.Interval, error) {
		switch t := v.(type) {
		case value.Interval:
			return t, nil
		case time.Duration:
			return value.Interval{Micros: t.Microseconds()}, nil
		default:
			return value.Interval{}, mismatch(v)
		}
	},
}
