// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"math/big"
	"math/bits"

	"github.com/duckvec/duckvec/internal/base"
)

// HugeInt is a signed 128-bit integer stored as two 64-bit halves.
type HugeInt struct {
	Lo uint64
	Hi int64
}

// UHugeInt is an unsigned 128-bit integer stored as two 64-bit halves.
type UHugeInt struct {
	Lo uint64
	Hi uint64
}

var (
	two64       = new(big.Int).Lsh(big.NewInt(1), 64)
	maxHugeInt  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minHugeInt  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxUHugeInt = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// HugeIntFromInt64 sign-extends v.
func HugeIntFromInt64(v int64) HugeInt {
	return HugeInt{Lo: uint64(v), Hi: v >> 63}
}

// HugeIntFromBig converts b, failing if it does not fit in 128 signed bits.
func HugeIntFromBig(b *big.Int) (HugeInt, error) {
	if b.Cmp(minHugeInt) < 0 || b.Cmp(maxHugeInt) > 0 {
		return HugeInt{}, base.OutOfRangef("%s does not fit in HUGEINT", b)
	}
	// Two's complement: for negative b, add 2^128.
	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(two64, 64))
	}
	lo := new(big.Int).And(u, new(big.Int).Sub(two64, big.NewInt(1)))
	hi := new(big.Int).Rsh(u, 64)
	return HugeInt{Lo: lo.Uint64(), Hi: int64(hi.Uint64())}, nil
}

// Big returns h as a *big.Int.
func (h HugeInt) Big() *big.Int {
	b := new(big.Int).SetInt64(h.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(h.Lo))
}

// Int64 returns h as an int64 if it fits.
func (h HugeInt) Int64() (int64, bool) {
	v := int64(h.Lo)
	return v, h.Hi == v>>63
}

// Sign returns -1, 0 or +1.
func (h HugeInt) Sign() int {
	switch {
	case h.Hi < 0:
		return -1
	case h.Hi == 0 && h.Lo == 0:
		return 0
	default:
		return 1
	}
}

// Neg returns -h, wrapping for the minimum value.
func (h HugeInt) Neg() HugeInt {
	lo, borrow := bits.Sub64(0, h.Lo, 0)
	hi, _ := bits.Sub64(0, uint64(h.Hi), borrow)
	return HugeInt{Lo: lo, Hi: int64(hi)}
}

func (h HugeInt) String() string {
	if v, ok := h.Int64(); ok {
		return big.NewInt(v).String()
	}
	return h.Big().String()
}

// UHugeIntFromBig converts b, failing if it does not fit in 128 unsigned bits.
func UHugeIntFromBig(b *big.Int) (UHugeInt, error) {
	if b.Sign() < 0 || b.Cmp(maxUHugeInt) > 0 {
		return UHugeInt{}, base.OutOfRangef("%s does not fit in UHUGEINT", b)
	}
	lo := new(big.Int).And(b, new(big.Int).Sub(two64, big.NewInt(1)))
	hi := new(big.Int).Rsh(b, 64)
	return UHugeInt{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

// Big returns u as a *big.Int.
func (u UHugeInt) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(u.Lo))
}

func (u UHugeInt) String() string {
	if u.Hi == 0 {
		return new(big.Int).SetUint64(u.Lo).String()
	}
	return u.Big().String()
}
