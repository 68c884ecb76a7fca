// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package binfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytesln(t *testing.T) {
	data := make([]byte, 24)
	for i := range data {
		data[i] = byte(i + 1)
	}
	f := New(data)
	f.HexBytesln(4, "row %d", 0)
	f.HexBytesln(20, "row %d", 1)
	require.Equal(t, []string{
		"  00-04: x 01020304                                 # row 0",
		"  04-24: x 05060708090a0b0c0d0e0f101112131415161718 # row 1",
	}, f.Lines("  "))
	// Lines resets the output but not the position.
	require.Empty(t, f.Lines(""))
	require.Equal(t, 24, f.off)
}

func TestHexByteslnContinued(t *testing.T) {
	f := New(make([]byte, 25))
	f.HexBytesln(25, "cell")
	lines := f.Lines("")
	require.Len(t, lines, 2)
	require.Equal(t, "00-20: x "+zeros(40)+" # cell", lines[0])
	require.Equal(t, "20-25: x "+zeros(10)+"                               # (continued...)", lines[1])
}

func TestBinaryLine(t *testing.T) {
	f := New([]byte{0x05, 0, 0, 0, 0, 0, 0, 0})
	f.Line(8).Append("b ").Binary(8).Done("validity rows %d-%d", 0, 63)
	require.Equal(t,
		"0-8: b 0000010100000000000000000000000000000000000000000000000000000000 # validity rows 0-63\n",
		f.String())

	require.Panics(t, func() { New(make([]byte, 2)).Line(2).Binary(3) })
	require.Panics(t, func() { New(make([]byte, 2)).Line(2).Binary(1).Done("") })
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
