// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
)

// Bit is a bit string in the engine's BIT layout: Data[0] holds the number of
// padding bits (0-7), which are ones occupying the most significant bits of
// Data[1]. The data bits follow, most significant bit first.
type Bit struct {
	Data []byte
}

// BitFromBools builds a bit string from one bool per bit.
func BitFromBools(bools []bool) Bit {
	n := len(bools)
	padding := (8 - n%8) % 8
	data := make([]byte, (n+7)/8+1)
	data[0] = byte(padding)
	for i := 0; i < padding; i++ {
		data[1] |= 0x80 >> i
	}
	for i, b := range bools {
		if b {
			pos := i + padding
			data[1+pos/8] |= 0x80 >> (pos % 8)
		}
	}
	return Bit{Data: data}
}

// ParseBit parses a string of '0' and '1' characters.
func ParseBit(s string) (Bit, error) {
	bools := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			bools[i] = true
		default:
			return Bit{}, base.TypeMismatchf("invalid character %q in bit string %q", s[i], s)
		}
	}
	return BitFromBools(bools), nil
}

// Check returns an error if the layout of b is malformed. The error carries
// no marker; callers mark it according to where b came from.
func (b Bit) Check() error {
	if len(b.Data) == 0 {
		return errors.New("bit string has no padding byte")
	}
	if b.Data[0] > 7 {
		return errors.Newf("bit string padding %d exceeds 7", b.Data[0])
	}
	if len(b.Data) == 1 && b.Data[0] != 0 {
		return errors.Newf("empty bit string with padding %d", b.Data[0])
	}
	return nil
}

// Padding returns the number of padding bits.
func (b Bit) Padding() int {
	return int(b.Data[0])
}

// Len returns the number of data bits.
func (b Bit) Len() int {
	if len(b.Data) == 0 {
		return 0
	}
	return (len(b.Data)-1)*8 - b.Padding()
}

// Get returns bit i.
func (b Bit) Get(i int) bool {
	pos := i + b.Padding()
	return b.Data[1+pos/8]&(0x80>>(pos%8)) != 0
}

// Bools returns one bool per bit.
func (b Bit) Bools() []bool {
	bools := make([]bool, b.Len())
	for i := range bools {
		bools[i] = b.Get(i)
	}
	return bools
}

func (b Bit) String() string {
	var sb strings.Builder
	n := b.Len()
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if b.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
