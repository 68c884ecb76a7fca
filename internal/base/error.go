// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrTypeMismatch is a marker for errors where a value's Go shape does not
// match the logical type of the vector it is being written to.
var ErrTypeMismatch = errors.New("duckvec: type mismatch")

// ErrOutOfRange is a marker for errors where a row index, decimal width, enum
// value or numeric value falls outside of what the type can represent.
var ErrOutOfRange = errors.New("duckvec: out of range")

// ErrUnsupportedType is a marker for errors where a logical type cannot back
// a materialized vector (ANY, SQLNULL, INVALID).
var ErrUnsupportedType = errors.New("duckvec: unsupported type")

// ErrCorruptLayout is a marker for errors where an engine buffer is
// inconsistent with the declared item count, stride or dictionary.
var ErrCorruptLayout = errors.New("duckvec: corrupt layout")

// ErrReadOnly is a marker for errors where a write is attempted through a
// vector that borrows an engine result and has not been made writable.
var ErrReadOnly = errors.New("duckvec: vector is read-only")

// TypeMismatchf formats according to a format specifier and returns the string
// as an error value marked with ErrTypeMismatch.
func TypeMismatchf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrTypeMismatch)
}

// OutOfRangef formats according to a format specifier and returns the string
// as an error value marked with ErrOutOfRange.
func OutOfRangef(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrOutOfRange)
}

// UnsupportedTypef formats according to a format specifier and returns the
// string as an error value marked with ErrUnsupportedType.
func UnsupportedTypef(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnsupportedType)
}

// CorruptLayoutf formats according to a format specifier and returns the
// string as an error value marked with ErrCorruptLayout.
func CorruptLayoutf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruptLayout)
}

// MarkCorruptLayout marks the given error as a corrupt layout error.
func MarkCorruptLayout(err error) error {
	if errors.Is(err, ErrCorruptLayout) {
		return err
	}
	return errors.Mark(err, ErrCorruptLayout)
}

// CheckRow returns an ErrOutOfRange error if i is not a valid row index for a
// vector of n rows.
func CheckRow(i, n int) error {
	if i < 0 || i >= n {
		return OutOfRangef("row %d out of range [0, %d)", i, n)
	}
	return nil
}
