// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"math/big"
	"strings"

	"github.com/duckvec/duckvec/internal/base"
)

// Decimal is a fixed-point number: Value / 10^Scale, with at most Width
// significant digits.
type Decimal struct {
	Width uint8
	Scale uint8
	// Value is the scaled integer.
	Value HugeInt
}

var pow10Big = func() [39]*big.Int {
	var p [39]*big.Int
	p[0] = big.NewInt(1)
	for i := 1; i < len(p); i++ {
		p[i] = new(big.Int).Mul(p[i-1], big.NewInt(10))
	}
	return p
}()

// Pow10 returns 10^n for n in [0, 38]. The result must not be modified.
func Pow10(n int) *big.Int {
	return pow10Big[n]
}

// NewDecimal returns a Decimal after checking that width and scale are valid
// and that the scaled value has fewer than width digits.
func NewDecimal(width, scale int, scaled *big.Int) (Decimal, error) {
	if width <= 0 || width > 38 {
		return Decimal{}, base.OutOfRangef("DECIMAL width %d not in [1, 38]", width)
	}
	if scale < 0 || scale > width {
		return Decimal{}, base.OutOfRangef("DECIMAL scale %d not in [0, %d]", scale, width)
	}
	if new(big.Int).Abs(scaled).Cmp(pow10Big[width]) >= 0 {
		return Decimal{}, base.OutOfRangef("%s has more than %d digits", scaled, width)
	}
	h, err := HugeIntFromBig(scaled)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Width: uint8(width), Scale: uint8(scale), Value: h}, nil
}

// DecimalFromInt64 is like NewDecimal for a scaled value that fits in an
// int64.
func DecimalFromInt64(width, scale int, scaled int64) (Decimal, error) {
	return NewDecimal(width, scale, big.NewInt(scaled))
}

// ParseDecimal parses a plain decimal literal such as "-12.50" into a
// DECIMAL(width, scale). Fractional digits beyond scale are rejected.
func ParseDecimal(s string, width, scale int) (Decimal, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > scale {
		return Decimal{}, base.OutOfRangef("%q has more than %d fractional digits", s, scale)
	}
	digits := whole + frac + strings.Repeat("0", scale-len(frac))
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return Decimal{}, base.TypeMismatchf("%q is not a decimal literal", s)
	}
	b, _ := new(big.Int).SetString(digits, 10)
	if neg {
		b.Neg(b)
	}
	return NewDecimal(width, scale, b)
}

// Big returns the scaled integer.
func (d Decimal) Big() *big.Int {
	return d.Value.Big()
}

// Float64 returns the nearest float64 to d.
func (d Decimal) Float64() float64 {
	r := new(big.Rat).SetFrac(d.Value.Big(), pow10Big[d.Scale])
	f, _ := r.Float64()
	return f
}

// String formats d with exactly Scale fractional digits.
func (d Decimal) String() string {
	scaled := d.Value.Big()
	if d.Scale == 0 {
		return scaled.String()
	}
	var sb strings.Builder
	if scaled.Sign() < 0 {
		sb.WriteByte('-')
		scaled.Neg(scaled)
	}
	whole, frac := new(big.Int).QuoRem(scaled, pow10Big[d.Scale], new(big.Int))
	sb.WriteString(whole.String())
	sb.WriteByte('.')
	fs := frac.String()
	sb.WriteString(strings.Repeat("0", int(d.Scale)-len(fs)))
	sb.WriteString(fs)
	return sb.String()
}
