// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring"
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
)

// A string_t cell is 16 bytes. Bytes 0-3 hold the little-endian payload
// length. Payloads of up to StringInlineMax bytes are stored inline in bytes
// 4-15. Longer payloads store their first 4 bytes in bytes 4-7 and a pointer
// into the engine's string heap in bytes 8-15.
const (
	StringCellSize  = 16
	StringInlineMax = 12
	stringPrefixLen = 4
)

// PutStringCell writes the string_t cell for payload into cell. ptr is
// ignored for inline payloads. Engines implementing AssignStringElement use
// this to lay out cells.
func PutStringCell(cell []byte, payload []byte, ptr uint64) {
	clear(cell[:StringCellSize])
	binary.LittleEndian.PutUint32(cell[0:4], uint32(len(payload)))
	if len(payload) <= StringInlineMax {
		copy(cell[4:16], payload)
		return
	}
	copy(cell[4:8], payload[:stringPrefixLen])
	binary.LittleEndian.PutUint64(cell[8:16], ptr)
}

// stringConv converts between string_t payloads and Go values for one kind.
type stringConv struct {
	decode func(payload []byte) (any, error)
	encode func(v any) ([]byte, error)
}

// Strings is a vector of string_t cells: VARCHAR, BLOB, BIT or VARINT.
//
// Decoded values are memoized per row, since decoding an out-of-line payload
// dereferences engine memory. Set stages the encoded payload; Flush hands
// each staged payload to the engine's string heap. Values returned by Get
// must not be modified.
type Strings struct {
	common
	conv *stringConv
	st   *stringState
}

var _ Vector = (*Strings)(nil)

// stringState is indexed by absolute row and shared by every slice.
type stringState struct {
	cache   []any
	cached  []bool
	pending [][]byte
	dirty   roaring.Bitmap
}

func newStrings(t *tree, raw RawVector, typ *logicaltype.T, n int, conv *stringConv) *Strings {
	return &Strings{
		common: makeCommon(t, raw, typ, n),
		conv:   conv,
		st: &stringState{
			cache:   make([]any, n),
			cached:  make([]bool, n),
			pending: make([][]byte, n),
		},
	}
}

// Payload returns the raw payload bytes of row i, which must be valid. Staged
// writes are returned before they are flushed.
func (s *Strings) Payload(i int) ([]byte, error) {
	if err := s.checkRow(i); err != nil {
		return nil, err
	}
	row := s.offset + i
	if s.st.dirty.Contains(uint32(row)) {
		return s.st.pending[row], nil
	}
	cell, err := s.cell(i, StringCellSize)
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint32(cell[0:4]))
	if n <= StringInlineMax {
		return bytes.Clone(cell[4 : 4+n]), nil
	}
	ptr := binary.LittleEndian.Uint64(cell[8:16])
	b, err := s.tree.env.host.ReadPointer(ptr, n)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %d-byte payload of row %d", n, row)
	}
	if len(b) != n {
		return nil, base.CorruptLayoutf("string heap returned %d bytes for a %d-byte payload", len(b), n)
	}
	if !bytes.HasPrefix(b, cell[4:8]) {
		return nil, base.CorruptLayoutf("string_t prefix %x does not match payload", cell[4:8])
	}
	return bytes.Clone(b), nil
}

// Get implements Vector.
func (s *Strings) Get(i int) (any, error) {
	if err := s.checkRow(i); err != nil {
		return nil, err
	}
	if !s.validity.Valid(i) {
		return nil, nil
	}
	row := s.offset + i
	if s.st.cached[row] {
		return s.st.cache[row], nil
	}
	payload, err := s.Payload(i)
	if err != nil {
		return nil, err
	}
	v, err := s.conv.decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s row %d", s.typ, row)
	}
	s.st.cache[row], s.st.cached[row] = v, true
	return v, nil
}

// Set implements Vector.
func (s *Strings) Set(i int, v any) error {
	if err := s.checkSet(i); err != nil {
		return err
	}
	row := s.offset + i
	if v == nil {
		s.st.dirty.Remove(uint32(row))
		s.st.pending[row] = nil
		s.st.cache[row], s.st.cached[row] = nil, false
		s.validity.SetValid(i, false)
		return nil
	}
	payload, canonical, err := s.encode(v)
	if err != nil {
		return err
	}
	s.st.pending[row] = payload
	s.st.cache[row], s.st.cached[row] = canonical, true
	s.st.dirty.Add(uint32(row))
	s.validity.SetValid(i, true)
	return nil
}

func (s *Strings) encode(v any) (payload []byte, canonical any, err error) {
	payload, err = s.conv.encode(v)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "encoding %s", s.typ)
	}
	canonical, err = s.conv.decode(payload)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "encoding %s", s.typ)
	}
	return payload, canonical, nil
}

func (s *Strings) normalize(v any) (any, error) {
	_, canonical, err := s.encode(v)
	return canonical, err
}

// Slice implements Vector.
func (s *Strings) Slice(offset, n int) (Vector, error) {
	c, err := s.sliced(offset, n)
	if err != nil {
		return nil, err
	}
	return &Strings{common: c, conv: s.conv, st: s.st}, nil
}

// Pending returns the number of staged rows awaiting Flush.
func (s *Strings) Pending() int {
	return int(s.st.dirty.GetCardinality())
}

// Flush implements Vector.
func (s *Strings) Flush() error {
	it := s.st.dirty.Iterator()
	for it.HasNext() {
		row := it.Next()
		if err := s.raw.AssignStringElement(int(row), s.st.pending[row]); err != nil {
			return errors.Wrapf(err, "assigning %s row %d", s.typ, row)
		}
		s.st.pending[row] = nil
	}
	s.st.dirty.Clear()
	s.validity.Flush()
	return nil
}

var varcharConv = &stringConv{
	decode: func(b []byte) (any, error) { return string(b), nil },
	encode: func(v any) ([]byte, error) {
		switch t := v.(type) {
		case string:
			if !utf8.ValidString(t) {
				return nil, base.TypeMismatchf("VARCHAR value is not valid UTF-8")
			}
			return []byte(t), nil
		case []byte:
			if !utf8.Valid(t) {
				return nil, base.TypeMismatchf("VARCHAR value is not valid UTF-8")
			}
			return bytes.Clone(t), nil
		default:
			return nil, mismatch(v)
		}
	},
}

var blobConv = &stringConv{
	decode: func(b []byte) (any, error) { return b, nil },
	encode: func(v any) ([]byte, error) {
		switch t := v.(type) {
		case []byte:
			return bytes.Clone(t), nil
		case string:
			return []byte(t), nil
		default:
			return nil, mismatch(v)
		}
	},
}

var bitConv = &stringConv{
	decode: func(b []byte) (any, error) {
		bit := value.Bit{Data: b}
		if err := bit.Check(); err != nil {
			return nil, base.MarkCorruptLayout(err)
		}
		return bit, nil
	},
	encode: func(v any) ([]byte, error) {
		switch t := v.(type) {
		case value.Bit:
			if err := t.Check(); err != nil {
				return nil, errors.Mark(err, base.ErrTypeMismatch)
			}
			return bytes.Clone(t.Data), nil
		case string:
			b, err := value.ParseBit(t)
			if err != nil {
				return nil, err
			}
			return b.Data, nil
		case []bool:
			return value.BitFromBools(t).Data, nil
		default:
			return nil, mismatch(v)
		}
	},
}

var varIntConv = &stringConv{
	decode: func(b []byte) (any, error) { return DecodeVarInt(b) },
	encode: func(v any) ([]byte, error) {
		b, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return EncodeVarInt(b)
	},
}
