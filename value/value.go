// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package value defines the Go representation of decoded vector elements.
//
// A decoded element is an `any`. A nil interface is SQL NULL. Kinds with a
// natural Go representation decode to it:
//
//	BOOLEAN                 bool
//	TINYINT .. BIGINT       int8, int16, int32, int64
//	UTINYINT .. UBIGINT     uint8, uint16, uint32, uint64
//	FLOAT, DOUBLE           float32, float64
//	VARCHAR, ENUM           string
//	BLOB                    []byte
//	VARINT                  *big.Int
//	UUID                    uuid.UUID
//
// The remaining kinds decode to the named types of this package: HugeInt,
// UHugeInt, Decimal, Date, Time, TimeTZ, Timestamp, TimestampS, TimestampMS,
// TimestampNS, TimestampTZ, Interval, Bit, List, Array, Struct, Map and Union.
package value

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/duckvec/duckvec/logicaltype"
)

// Format returns the display form of a decoded value. NULL is displayed as
// NULL and strings are quoted.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return logicaltype.QuoteString(t)
	case []byte:
		return FormatBlob(t)
	case bool:
		return strconv.FormatBool(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatBlob formats b the way the engine casts BLOB to VARCHAR: printable
// bytes other than quotes are kept and everything else is written as \xHH.
func FormatBlob(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c <= 0x1f || c == '"' || c == '\'' || c >= 0x7f {
			fmt.Fprintf(&sb, `\x%02X`, c)
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Equal returns true if a and b are the same decoded value. Unlike
// reflect.DeepEqual it compares *big.Int by value, and it treats a nil and an
// empty []byte as equal.
func Equal(a, b any) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case *big.Int:
		bt, ok := b.(*big.Int)
		return ok && at.Cmp(bt) == 0
	case []byte:
		bt, ok := b.([]byte)
		return ok && bytes.Equal(at, bt)
	case Bit:
		bt, ok := b.(Bit)
		return ok && bytes.Equal(at.Data, bt.Data)
	case List:
		bt, ok := b.(List)
		return ok && elemsEqual(at, bt)
	case Array:
		bt, ok := b.(Array)
		return ok && elemsEqual(at, bt)
	case Struct:
		bt, ok := b.(Struct)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if at[i].Name != bt[i].Name || !Equal(at[i].Value, bt[i].Value) {
				return false
			}
		}
		return true
	case Map:
		bt, ok := b.(Map)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i].Key, bt[i].Key) || !Equal(at[i].Value, bt[i].Value) {
				return false
			}
		}
		return true
	case Union:
		bt, ok := b.(Union)
		return ok && at.Tag == bt.Tag && Equal(at.Value, bt.Value)
	default:
		return a == b
	}
}

func elemsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
