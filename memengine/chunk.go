// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memengine

import (
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/vector"
)

// Chunk is a set of same-capacity vectors with a row count.
type Chunk struct {
	capacity int
	size     int
	cols     []*Vector
}

// ColumnCount returns the number of columns.
func (c *Chunk) ColumnCount() int { return len(c.cols) }

// Column returns column i.
func (c *Chunk) Column(i int) vector.RawVector { return c.cols[i] }

// Size returns the number of rows in use.
func (c *Chunk) Size() int { return c.size }

// Capacity returns the number of rows each column has room for.
func (c *Chunk) Capacity() int { return c.capacity }

// SetSize sets the number of rows in use.
func (c *Chunk) SetSize(n int) error {
	if n < 0 || n > c.capacity {
		return base.OutOfRangef("chunk size %d not in [0, %d]", n, c.capacity)
	}
	c.size = n
	return nil
}

// Reset empties the chunk and resets every column.
func (c *Chunk) Reset() {
	c.size = 0
	for _, v := range c.cols {
		v.Reset()
	}
}
