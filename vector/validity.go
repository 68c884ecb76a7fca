// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"math/bits"
	"strings"

	"github.com/duckvec/duckvec/internal/binfmt"
)

// Validity is a view of a vector's validity bitmap. Bit i of the
// little-endian 64-bit words is set when row i is non-null; an absent bitmap
// means every row is valid.
//
// The engine's words are read directly until the first mutation that changes
// a row's validity. At that point the bitmap is copied (or, if absent,
// materialized as all ones) into local words, which Flush copies back into the
// engine's region. Views created by Slice share this state.
type Validity struct {
	s      *validityState
	offset int
	n      int
}

type validityState struct {
	raw   RawVector
	total int
	// words is nil until the first mutation.
	words []uint64
	dirty bool
}

func makeValidity(raw RawVector, n int) Validity {
	return Validity{s: &validityState{raw: raw, total: n}, n: n}
}

// ValidityWords returns the number of 64-bit words backing n rows.
func ValidityWords(n int) int {
	return (n + 63) >> 6
}

func (s *validityState) get(words []uint64, i int) bool {
	return words[i>>6 /* i/64 */]&(1<<uint(i%64)) != 0
}

// Valid returns true if row i of the view is non-null.
func (v Validity) Valid(i int) bool {
	i += v.offset
	if v.s.words != nil {
		return v.s.get(v.s.words, i)
	}
	w := v.s.raw.Validity()
	if w == nil {
		return true
	}
	return v.s.get(w, i)
}

// SetValid marks row i of the view valid or invalid.
func (v Validity) SetValid(i int, valid bool) {
	i += v.offset
	s := v.s
	if s.words == nil {
		engine := s.raw.Validity()
		if engine == nil && valid {
			// Absent bitmap already says valid.
			return
		}
		if engine != nil && s.get(engine, i) == valid {
			return
		}
		s.words = make([]uint64, ValidityWords(s.total))
		if engine != nil {
			copy(s.words, engine)
		} else {
			for j := range s.words {
				s.words[j] = ^uint64(0)
			}
		}
	}
	if valid {
		s.words[i>>6] |= 1 << uint(i%64)
	} else {
		s.words[i>>6] &^= 1 << uint(i%64)
	}
	s.dirty = true
}

// Slice returns a view of rows [offset, offset+n) sharing this bitmap.
func (v Validity) Slice(offset, n int) Validity {
	return Validity{s: v.s, offset: v.offset + offset, n: n}
}

// Len returns the number of rows in the view.
func (v Validity) Len() int { return v.n }

// NullCount returns the number of null rows in the view.
func (v Validity) NullCount() int {
	words := v.s.words
	if words == nil {
		words = v.s.raw.Validity()
		if words == nil {
			return 0
		}
	}
	if v.offset%64 == 0 && v.n%64 == 0 {
		valid := 0
		for _, w := range words[v.offset>>6 : (v.offset+v.n)>>6] {
			valid += bits.OnesCount64(w)
		}
		return v.n - valid
	}
	nulls := 0
	for i := 0; i < v.n; i++ {
		if !v.s.get(words, v.offset+i) {
			nulls++
		}
	}
	return nulls
}

// Dirty returns true if the bitmap has mutations that have not been flushed.
func (v Validity) Dirty() bool { return v.s.dirty }

// Flush copies local mutations into the engine's validity region. It is a
// no-op if nothing changed since the last Flush.
func (v Validity) Flush() {
	s := v.s
	if !s.dirty {
		return
	}
	dst := s.raw.EnsureValidityWritable()
	copy(dst, s.words)
	s.dirty = false
}

// String returns the view's validity as a string of 0s and 1s, one per row,
// broken into lines of 64 rows.
func (v Validity) String() string {
	var sb strings.Builder
	for i := 0; i < v.n; i++ {
		if i > 0 && i%64 == 0 {
			sb.WriteByte('\n')
		}
		if v.Valid(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// validityToBinFormatter formats words validity words, eight bytes per line.
func validityToBinFormatter(f *binfmt.Formatter, words int) {
	for i := 0; i < words; i++ {
		f.Line(8).Append("b ").Binary(8).Done("validity rows %d-%d", i*64, i*64+63)
	}
}
