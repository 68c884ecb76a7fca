// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package logicaltype

import "github.com/cockroachdb/redact"

// Kind enumerates the logical type kinds understood by the engine. The numeric
// values are the engine's type ids and must not be changed.
type Kind uint8

// These constants are part of the engine ABI, and should not be changed.
const (
	KindInvalid     Kind = 0
	KindBoolean     Kind = 1
	KindTinyInt     Kind = 2
	KindSmallInt    Kind = 3
	KindInteger     Kind = 4
	KindBigInt      Kind = 5
	KindUTinyInt    Kind = 6
	KindUSmallInt   Kind = 7
	KindUInteger    Kind = 8
	KindUBigInt     Kind = 9
	KindFloat       Kind = 10
	KindDouble      Kind = 11
	KindTimestamp   Kind = 12
	KindDate        Kind = 13
	KindTime        Kind = 14
	KindInterval    Kind = 15
	KindHugeInt     Kind = 16
	KindVarchar     Kind = 17
	KindBlob        Kind = 18
	KindDecimal     Kind = 19
	KindTimestampS  Kind = 20
	KindTimestampMS Kind = 21
	KindTimestampNS Kind = 22
	KindEnum        Kind = 23
	KindList        Kind = 24
	KindStruct      Kind = 25
	KindMap         Kind = 26
	KindUUID        Kind = 27
	KindUnion       Kind = 28
	KindBit         Kind = 29
	KindTimeTZ      Kind = 30
	KindTimestampTZ Kind = 31
	KindUHugeInt    Kind = 32
	KindArray       Kind = 33
	KindAny         Kind = 34
	KindVarInt      Kind = 35
	KindSQLNull     Kind = 36

	kindCount Kind = 37
)

var kindName = [kindCount]string{
	KindInvalid:     "INVALID",
	KindBoolean:     "BOOLEAN",
	KindTinyInt:     "TINYINT",
	KindSmallInt:    "SMALLINT",
	KindInteger:     "INTEGER",
	KindBigInt:      "BIGINT",
	KindUTinyInt:    "UTINYINT",
	KindUSmallInt:   "USMALLINT",
	KindUInteger:    "UINTEGER",
	KindUBigInt:     "UBIGINT",
	KindFloat:       "FLOAT",
	KindDouble:      "DOUBLE",
	KindTimestamp:   "TIMESTAMP",
	KindDate:        "DATE",
	KindTime:        "TIME",
	KindInterval:    "INTERVAL",
	KindHugeInt:     "HUGEINT",
	KindVarchar:     "VARCHAR",
	KindBlob:        "BLOB",
	KindDecimal:     "DECIMAL",
	KindTimestampS:  "TIMESTAMP_S",
	KindTimestampMS: "TIMESTAMP_MS",
	KindTimestampNS: "TIMESTAMP_NS",
	KindEnum:        "ENUM",
	KindList:        "LIST",
	KindStruct:      "STRUCT",
	KindMap:         "MAP",
	KindUUID:        "UUID",
	KindUnion:       "UNION",
	KindBit:         "BIT",
	KindTimeTZ:      "TIME_TZ",
	KindTimestampTZ: "TIMESTAMP_TZ",
	KindUHugeInt:    "UHUGEINT",
	KindArray:       "ARRAY",
	KindAny:         "ANY",
	KindVarInt:      "VARINT",
	KindSQLNull:     "SQLNULL",
}

// String returns the engine's name for the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "UNKNOWN"
	}
	return kindName[k]
}

// SafeFormat implements redact.SafeFormatter.
func (k Kind) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(k.String()))
}

// IsNested returns true for kinds whose vectors own child vectors.
func (k Kind) IsNested() bool {
	switch k {
	case KindList, KindStruct, KindMap, KindArray, KindUnion:
		return true
	}
	return false
}

// IsStringLike returns true for kinds stored in 16-byte string_t cells.
func (k Kind) IsStringLike() bool {
	switch k {
	case KindVarchar, KindBlob, KindBit, KindVarInt:
		return true
	}
	return false
}

// IsPrimitive returns true for kinds that carry no parameters and can be
// described by their Kind alone.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindInvalid, KindDecimal, KindEnum, KindList, KindStruct, KindMap,
		KindArray, KindUnion:
		return false
	}
	return k < kindCount
}
