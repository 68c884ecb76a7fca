// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"encoding/binary"
	"math/big"

	"github.com/duckvec/duckvec/internal/base"
)

// A VARINT payload is a 3-byte big-endian header followed by the big-endian
// magnitude of the integer, using the minimal number of bytes (at least one).
// The header's top bit is set for non-negative values and its low 23 bits
// hold the magnitude's byte count. For negative values every bit of the
// header and of the magnitude is complemented.
const (
	varIntHeaderSize = 3
	varIntSignBit    = 1 << 23
	varIntMaxBytes   = varIntSignBit - 1
)

// EncodeVarInt returns the VARINT payload for b.
func EncodeVarInt(b *big.Int) ([]byte, error) {
	mag := new(big.Int).Abs(b).Bytes()
	if len(mag) == 0 {
		mag = []byte{0}
	}
	if len(mag) > varIntMaxBytes {
		return nil, base.OutOfRangef("VARINT magnitude of %d bytes exceeds %d", len(mag), varIntMaxBytes)
	}
	neg := b.Sign() < 0
	header := uint32(len(mag)) | varIntSignBit
	if neg {
		header = ^header
	}
	out := make([]byte, varIntHeaderSize+len(mag))
	out[0], out[1], out[2] = byte(header>>16), byte(header>>8), byte(header)
	copy(out[varIntHeaderSize:], mag)
	if neg {
		for i := varIntHeaderSize; i < len(out); i++ {
			out[i] = ^out[i]
		}
	}
	return out, nil
}

// DecodeVarInt decodes a VARINT payload. The magnitude is consumed in 8-byte
// chunks followed by any remaining single bytes.
func DecodeVarInt(buf []byte) (*big.Int, error) {
	if len(buf) < varIntHeaderSize+1 {
		return nil, base.CorruptLayoutf("VARINT payload of %d bytes is too short", len(buf))
	}
	header := uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
	neg := header&varIntSignBit == 0
	if neg {
		header = ^header & (1<<24 - 1)
	}
	data := buf[varIntHeaderSize:]
	if n := int(header &^ varIntSignBit); n != len(data) {
		return nil, base.CorruptLayoutf("VARINT header declares %d bytes, payload has %d", n, len(data))
	}
	var mask64 uint64
	var mask8 byte
	if neg {
		mask64, mask8 = ^uint64(0), 0xff
	}
	result := new(big.Int)
	var chunk big.Int
	i := 0
	for ; i+8 <= len(data); i += 8 {
		result.Lsh(result, 64)
		result.Or(result, chunk.SetUint64(binary.BigEndian.Uint64(data[i:])^mask64))
	}
	for ; i < len(data); i++ {
		result.Lsh(result, 8)
		result.Or(result, chunk.SetUint64(uint64(data[i]^mask8)))
	}
	if neg {
		result.Neg(result)
	}
	return result, nil
}
