// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
)

// Host is the engine-wide half of the collaborator contract.
type Host interface {
	// SizeofBool returns the width in bytes of the engine's boolean storage.
	SizeofBool() int
	// ReadPointer returns n bytes of out-of-line string data starting at ptr.
	// The returned slice must not be retained past the lifetime of the chunk
	// that references it.
	ReadPointer(ptr uint64, n int) ([]byte, error)
}

// RawVector is an engine vector handle. All buffers are little-endian.
type RawVector interface {
	// Type returns the vector's logical type.
	Type() *logicaltype.T
	// Data returns the fixed-width region of the vector: one cell per row of
	// the kind's stride. The slice may change after SetListSize on a parent.
	Data() []byte
	// Validity returns the validity words, or nil if every row is valid.
	Validity() []uint64
	// EnsureValidityWritable allocates the validity words if necessary, with
	// every row valid, and returns them.
	EnsureValidityWritable() []uint64
	// AssignStringElement copies b into the engine's string heap and points
	// the string_t cell of row at it.
	AssignStringElement(row int, b []byte) error
	// ListChild returns the child vector of a LIST or MAP vector.
	ListChild() RawVector
	// ListSize returns the number of rows in use in the list child vector.
	ListSize() int
	// SetListSize grows the list child vector, if needed, and sets the number
	// of rows in use. Previously obtained Data slices of the child may be
	// invalidated.
	SetListSize(n int) error
	// StructChild returns the i'th entry vector of a STRUCT or UNION vector.
	StructChild(i int) RawVector
	// ArrayChild returns the child vector of an ARRAY vector.
	ArrayChild() RawVector
}

// Env is the immutable per-engine codec environment. It is resolved once with
// NewEnv and passed to every Create.
type Env struct {
	host      Host
	boolWidth int
}

// NewEnv probes the host's boolean width.
func NewEnv(host Host) (*Env, error) {
	w := host.SizeofBool()
	switch w {
	case 1, 2, 4, 8:
	default:
		return nil, base.UnsupportedTypef("unsupported boolean width %d", w)
	}
	return &Env{host: host, boolWidth: w}, nil
}

// Host returns the engine host.
func (e *Env) Host() Host { return e.host }

// BoolWidth returns the probed boolean storage width.
func (e *Env) BoolWidth() int { return e.boolWidth }
