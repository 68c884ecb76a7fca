// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"math"
	"math/big"
	"unsafe"

	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/value"
	"golang.org/x/exp/constraints"
)

func mismatch(v any) error {
	return base.TypeMismatchf("unexpected value of type %T", v)
}

// toInt64 accepts any Go integer, or a *big.Int, that fits in an int64.
func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return uintToInt64(uint64(t))
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return uintToInt64(t)
	case *big.Int:
		if !t.IsInt64() {
			return 0, base.OutOfRangef("%s overflows int64", t)
		}
		return t.Int64(), nil
	default:
		return 0, mismatch(v)
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, base.OutOfRangef("%d overflows int64", u)
	}
	return int64(u), nil
}

// toUint64 accepts any non-negative Go integer, or *big.Int, that fits in a
// uint64.
func toUint64(v any) (uint64, error) {
	switch t := v.(type) {
	case uint:
		return uint64(t), nil
	case uint8:
		return uint64(t), nil
	case uint16:
		return uint64(t), nil
	case uint32:
		return uint64(t), nil
	case uint64:
		return t, nil
	case *big.Int:
		if !t.IsUint64() {
			return 0, base.OutOfRangef("%s overflows uint64", t)
		}
		return t.Uint64(), nil
	default:
		x, err := toInt64(v)
		if err != nil {
			return 0, err
		}
		if x < 0 {
			return 0, base.OutOfRangef("%d is negative", x)
		}
		return uint64(x), nil
	}
}

func convertSigned[T constraints.Signed](v any) (T, error) {
	x, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if int64(T(x)) != x {
		return 0, base.OutOfRangef("%d overflows %d-bit integer", x, bitSize[T]())
	}
	return T(x), nil
}

func convertUnsigned[T constraints.Unsigned](v any) (T, error) {
	x, err := toUint64(v)
	if err != nil {
		return 0, err
	}
	if uint64(T(x)) != x {
		return 0, base.OutOfRangef("%d overflows %d-bit unsigned integer", x, bitSize[T]())
	}
	return T(x), nil
}

func bitSize[T constraints.Integer]() int {
	return int(unsafe.Sizeof(T(0))) * 8
}

func convertFloat[T constraints.Float](v any) (T, error) {
	switch t := v.(type) {
	case float32:
		return T(t), nil
	case float64:
		return T(t), nil
	default:
		x, err := toInt64(v)
		if err != nil {
			return 0, err
		}
		f := T(x)
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if float64(f) >= 1<<63 || int64(f) != x {
			return 0, base.OutOfRangef("%d cannot be represented exactly as %T", x, f)
		}
		return f, nil
	}
}

// toHugeInt accepts value.HugeInt, *big.Int and any Go integer.
func toHugeInt(v any) (value.HugeInt, error) {
	switch t := v.(type) {
	case value.HugeInt:
		return t, nil
	case *big.Int:
		return value.HugeIntFromBig(t)
	case uint64:
		return value.HugeInt{Lo: t}, nil
	case uint:
		return value.HugeInt{Lo: uint64(t)}, nil
	default:
		x, err := toInt64(v)
		if err != nil {
			return value.HugeInt{}, err
		}
		return value.HugeIntFromInt64(x), nil
	}
}

// toUHugeInt accepts value.UHugeInt, *big.Int and any non-negative Go
// integer.
func toUHugeInt(v any) (value.UHugeInt, error) {
	switch t := v.(type) {
	case value.UHugeInt:
		return t, nil
	case *big.Int:
		return value.UHugeIntFromBig(t)
	default:
		x, err := toUint64(v)
		if err != nil {
			return value.UHugeInt{}, err
		}
		return value.UHugeInt{Lo: x}, nil
	}
}

// toBigInt accepts *big.Int, the 128-bit value types and any Go integer. The
// result is always a fresh *big.Int.
func toBigInt(v any) (*big.Int, error) {
	switch t := v.(type) {
	case *big.Int:
		return new(big.Int).Set(t), nil
	case value.HugeInt:
		return t.Big(), nil
	case value.UHugeInt:
		return t.Big(), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case uint:
		return new(big.Int).SetUint64(uint64(t)), nil
	default:
		x, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return big.NewInt(x), nil
	}
}
