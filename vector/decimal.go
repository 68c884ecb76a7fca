// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
)

// DecimalStride returns the width in bytes of the integer backing a
// DECIMAL(width, _) value.
func DecimalStride(width int) (int, error) {
	switch {
	case width <= 0 || width > logicaltype.MaxDecimalWidth:
		return 0, base.OutOfRangef("DECIMAL width %d not in [1, %d]", width, logicaltype.MaxDecimalWidth)
	case width <= 4:
		return 2, nil
	case width <= 9:
		return 4, nil
	case width <= 18:
		return 8, nil
	default:
		return 16, nil
	}
}

// Decimal is a vector of DECIMAL values. The scaled integer is stored in a
// little-endian signed integer of 2, 4, 8 or 16 bytes depending on the
// type's width.
type Decimal struct {
	common
	stride int
	width  int
	scale  int
}

var _ Vector = (*Decimal)(nil)

func newDecimal(t *tree, raw RawVector, typ *logicaltype.T, n int) (*Decimal, error) {
	stride, err := DecimalStride(typ.Width())
	if err != nil {
		return nil, err
	}
	return &Decimal{
		common: makeCommon(t, raw, typ, n),
		stride: stride,
		width:  typ.Width(),
		scale:  typ.Scale(),
	}, nil
}

// Stride returns the width in bytes of one cell.
func (d *Decimal) Stride() int { return d.stride }

func (d *Decimal) load(b []byte) value.HugeInt {
	switch d.stride {
	case 2:
		return value.HugeIntFromInt64(int64(int16(binary.LittleEndian.Uint16(b))))
	case 4:
		return value.HugeIntFromInt64(int64(int32(binary.LittleEndian.Uint32(b))))
	case 8:
		return value.HugeIntFromInt64(int64(binary.LittleEndian.Uint64(b)))
	default:
		return loadHugeInt(b)
	}
}

// store writes h, which has already been checked to fit the type's width.
func (d *Decimal) store(b []byte, h value.HugeInt) {
	x, _ := h.Int64()
	switch d.stride {
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case 8:
		binary.LittleEndian.PutUint64(b, uint64(x))
	default:
		storeHugeInt(b, h)
	}
}

// Get implements Vector.
func (d *Decimal) Get(i int) (any, error) {
	if err := d.checkRow(i); err != nil {
		return nil, err
	}
	if !d.validity.Valid(i) {
		return nil, nil
	}
	b, err := d.cell(i, d.stride)
	if err != nil {
		return nil, err
	}
	return value.Decimal{Width: uint8(d.width), Scale: uint8(d.scale), Value: d.load(b)}, nil
}

// Set implements Vector. It accepts a value.Decimal of the vector's exact
// width and scale, a decimal literal string, or an integer which is scaled
// by 10^scale.
func (d *Decimal) Set(i int, v any) error {
	if err := d.checkSet(i); err != nil {
		return err
	}
	if v == nil {
		d.validity.SetValid(i, false)
		return nil
	}
	dec, err := d.encode(v)
	if err != nil {
		return err
	}
	b, err := d.cell(i, d.stride)
	if err != nil {
		return err
	}
	d.store(b, dec.Value)
	d.validity.SetValid(i, true)
	return nil
}

func (d *Decimal) encode(v any) (value.Decimal, error) {
	dec, err := d.convert(v)
	if err != nil {
		return value.Decimal{}, errors.Wrapf(err, "encoding %s", d.typ)
	}
	return dec, nil
}

func (d *Decimal) convert(v any) (value.Decimal, error) {
	switch t := v.(type) {
	case value.Decimal:
		if int(t.Width) != d.width || int(t.Scale) != d.scale {
			return value.Decimal{}, base.TypeMismatchf("DECIMAL(%d,%d) value does not match DECIMAL(%d,%d)",
				t.Width, t.Scale, d.width, d.scale)
		}
		// Re-check the digit count; the struct may have been built by hand.
		return value.NewDecimal(d.width, d.scale, t.Value.Big())
	case string:
		return value.ParseDecimal(t, d.width, d.scale)
	default:
		whole, err := toBigInt(v)
		if err != nil {
			return value.Decimal{}, err
		}
		return value.NewDecimal(d.width, d.scale, whole.Mul(whole, value.Pow10(d.scale)))
	}
}

func (d *Decimal) normalize(v any) (any, error) {
	return d.encode(v)
}

// Slice implements Vector.
func (d *Decimal) Slice(offset, n int) (Vector, error) {
	c, err := d.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &Decimal{common: c, stride: d.stride, width: d.width, scale: d.scale}, nil
}

// Flush implements Vector.
func (d *Decimal) Flush() error {
	d.validity.Flush()
	return nil
}

