// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// The engine stores a UUID as a HUGEINT holding the UUID's 128 bits with the
// most significant bit flipped, so that signed comparison of the stored
// integers matches the textual order of the UUIDs.
const uuidSignFlip = 1 << 63

// UUIDToHugeInt returns the stored form of u.
func UUIDToHugeInt(u uuid.UUID) HugeInt {
	return HugeInt{
		Lo: binary.BigEndian.Uint64(u[8:]),
		Hi: int64(binary.BigEndian.Uint64(u[:8]) ^ uuidSignFlip),
	}
}

// UUIDFromHugeInt decodes the stored form of a UUID.
func UUIDFromHugeInt(h HugeInt) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], uint64(h.Hi)^uuidSignFlip)
	binary.BigEndian.PutUint64(u[8:], h.Lo)
	return u
}
