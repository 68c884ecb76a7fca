// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"math/big"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/stretchr/testify/require"
)

func TestVarIntKnownEncodings(t *testing.T) {
	for _, tc := range []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x80, 0x00, 0x01, 0x00}},
		{1, []byte{0x80, 0x00, 0x01, 0x01}},
		{-1, []byte{0x7f, 0xff, 0xfe, 0xfe}},
		{255, []byte{0x80, 0x00, 0x01, 0xff}},
		{256, []byte{0x80, 0x00, 0x02, 0x01, 0x00}},
		{-256, []byte{0x7f, 0xff, 0xfd, 0xfe, 0xff}},
	} {
		got, err := EncodeVarInt(big.NewInt(tc.v))
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "%d", tc.v)
		back, err := DecodeVarInt(got)
		require.NoError(t, err)
		require.Equal(t, 0, back.Cmp(big.NewInt(tc.v)))
	}
}

// TestVarIntBoundaries round trips every magnitude length from 1 to 17 bytes
// at the edges of each length, in both signs. Lengths 8, 9, 16 and 17 cross
// the decoder's 8-byte chunk boundary.
func TestVarIntBoundaries(t *testing.T) {
	one := big.NewInt(1)
	check := func(b *big.Int, wantLen int) {
		t.Helper()
		payload, err := EncodeVarInt(b)
		require.NoError(t, err)
		require.Equalf(t, varIntHeaderSize+wantLen, len(payload), "%s", b)
		got, err := DecodeVarInt(payload)
		require.NoError(t, err)
		require.Equalf(t, 0, got.Cmp(b), "want %s, got %s", b, got)
	}
	for n := 1; n <= 17; n++ {
		// The largest magnitude of n bytes is 2^(8n) - 1; the smallest of n+1
		// bytes is 2^(8n).
		limit := new(big.Int).Lsh(one, uint(8*n))
		largest := new(big.Int).Sub(limit, one)
		for _, sign := range []int64{1, -1} {
			s := big.NewInt(sign)
			check(new(big.Int).Mul(largest, s), n)
			check(new(big.Int).Mul(limit, s), n+1)
			if n > 1 {
				smallest := new(big.Int).Lsh(one, uint(8*(n-1)))
				check(new(big.Int).Mul(smallest, s), n)
			}
		}
	}
}

func TestVarIntRandom(t *testing.T) {
	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %d", seed)
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < 1000; i++ {
		buf := make([]byte, 1+rng.IntN(40))
		for j := range buf {
			buf[j] = byte(rng.Uint32())
		}
		b := new(big.Int).SetBytes(buf)
		if rng.IntN(2) == 0 {
			b.Neg(b)
		}
		payload, err := EncodeVarInt(b)
		require.NoError(t, err)
		got, err := DecodeVarInt(payload)
		require.NoError(t, err)
		require.Equal(t, 0, got.Cmp(b))
	}
}

func TestVarIntOrdering(t *testing.T) {
	// The encoding of a smaller value compares lower bytewise when both have
	// the same magnitude length.
	a, err := EncodeVarInt(big.NewInt(-2))
	require.NoError(t, err)
	b, err := EncodeVarInt(big.NewInt(-1))
	require.NoError(t, err)
	c, err := EncodeVarInt(big.NewInt(1))
	require.NoError(t, err)
	require.Less(t, string(a), string(b))
	require.Less(t, string(b), string(c))
}

func TestVarIntCorrupt(t *testing.T) {
	for _, payload := range [][]byte{
		nil,
		{0x80, 0x00, 0x01},
		{0x80, 0x00, 0x02, 0x01},
		{0x80, 0x00, 0x01, 0x01, 0x02},
		{0x7f, 0xff, 0xfd, 0xfe},
	} {
		_, err := DecodeVarInt(payload)
		require.Truef(t, errors.Is(err, base.ErrCorruptLayout), "%x: %v", payload, err)
	}
}
