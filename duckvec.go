// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package duckvec reads and writes a columnar database engine's in-memory
// vector format as Go values.
//
// The engine exchanges data as chunks of vectors: fixed-layout binary columns
// with validity bitmaps, 16-byte string cells pointing into an engine-owned
// string heap, and nested list, struct, map, array and union vectors built
// from child vectors. Package vector implements the codec for a single
// vector; this package wraps a chunk of them in a DataChunk with column and
// row helpers. Package logicaltype describes column types and package value
// holds the Go types that decoded values take.
//
// The engine itself is reached only through the vector.Host,
// vector.RawVector and RawChunk interfaces. Package memengine implements them
// in Go memory.
package duckvec // import "github.com/duckvec/duckvec"

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
)

var (
	// ErrTypeMismatch marks errors where a value's Go shape does not match
	// the vector's logical type.
	ErrTypeMismatch = base.ErrTypeMismatch
	// ErrOutOfRange marks errors where a row index, decimal width, enum
	// value or numeric value is outside what the type can represent.
	ErrOutOfRange = base.ErrOutOfRange
	// ErrUnsupportedType marks errors where a logical type cannot back a
	// materialized vector.
	ErrUnsupportedType = base.ErrUnsupportedType
	// ErrCorruptLayout marks errors where an engine buffer is inconsistent
	// with its declared item count, stride or dictionary.
	ErrCorruptLayout = base.ErrCorruptLayout
	// ErrReadOnly marks errors from writing to a borrowed vector.
	ErrReadOnly = base.ErrReadOnly
)

// IsCorruptLayoutError returns true if the given error indicates an engine
// buffer that does not match its declared layout.
func IsCorruptLayoutError(err error) bool {
	return errors.Is(err, base.ErrCorruptLayout)
}

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger
