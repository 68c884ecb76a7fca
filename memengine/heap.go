// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/internal/invariants"
)

// stringHeap is an append-only arena for out-of-line string payloads. A
// pointer is the block index in the high 32 bits and the byte offset within
// the block in the low 32 bits. Identical payloads are stored once.
//
// Blocks are never freed or moved, so slices returned by read stay valid for
// the life of the engine.
type stringHeap struct {
	blockSize int
	mu        struct {
		sync.Mutex
		blocks [][]byte
		// dedup maps the xxhash of a payload to its pointer. On a hash
		// collision the newer payload is simply not deduplicated.
		dedup swiss.Map[uint64, uint64]
		size  int64
	}
}

func makePointer(block, off int) uint64 {
	return uint64(block)<<32 | uint64(uint32(off))
}

func splitPointer(ptr uint64) (block, off int) {
	return int(ptr >> 32), int(uint32(ptr))
}

func (h *stringHeap) init(blockSize int) {
	h.blockSize = blockSize
	h.mu.dedup.Init(64)
}

// add stores b and returns its pointer, and whether an existing copy was
// reused.
func (h *stringHeap) add(b []byte) (ptr uint64, reused bool) {
	sum := xxhash.Sum64(b)
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.mu.dedup.Get(sum); ok {
		if existing, err := h.readLocked(p, len(b)); err == nil && bytes.Equal(existing, b) {
			return p, true
		}
	}

	n := len(h.mu.blocks)
	if n == 0 || len(b) > cap(h.mu.blocks[n-1])-len(h.mu.blocks[n-1]) {
		// Oversized payloads get a block of their own.
		h.mu.blocks = append(h.mu.blocks, make([]byte, 0, max(h.blockSize, len(b))))
		n++
	}
	blk := h.mu.blocks[n-1]
	ptr = makePointer(n-1, len(blk))
	h.mu.blocks[n-1] = append(blk, b...)
	h.mu.size += int64(len(b))
	if _, ok := h.mu.dedup.Get(sum); !ok {
		h.mu.dedup.Put(sum, ptr)
	}
	return ptr, false
}

func (h *stringHeap) read(ptr uint64, n int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.readLocked(ptr, n)
}

func (h *stringHeap) readLocked(ptr uint64, n int) ([]byte, error) {
	block, off := splitPointer(ptr)
	if block >= len(h.mu.blocks) {
		return nil, base.CorruptLayoutf("string pointer %#x names block %d of %d", ptr, block, len(h.mu.blocks))
	}
	blk := h.mu.blocks[block]
	if n < 0 || off+n > len(blk) {
		return nil, base.CorruptLayoutf("string pointer %#x: %d bytes beyond block of %d", ptr, n, len(blk))
	}
	if invariants.Enabled && n > 0 {
		invariants.CheckBounds(off+n-1, len(blk))
	}
	return blk[off : off+n : off+n], nil
}

// stats returns the number of blocks and payload bytes stored.
func (h *stringHeap) stats() (blocks int, size int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mu.blocks), h.mu.size
}
