// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package duckvec

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/vector"
)

// MaxChunkSize is the largest number of rows a chunk may hold.
const MaxChunkSize = 2048

// RawChunk is an engine chunk handle: a fixed set of columns and a row count.
type RawChunk interface {
	// ColumnCount returns the number of columns.
	ColumnCount() int
	// Column returns the raw vector of column i.
	Column(i int) vector.RawVector
	// Size returns the number of rows in use.
	Size() int
	// SetSize sets the number of rows in use.
	SetSize(n int) error
	// Reset empties the chunk.
	Reset()
}

// DataChunk is a batch of same-length vectors. Column vectors are created on
// first use with the chunk's current row count, and are recreated after the
// row count changes.
//
// A DataChunk is not safe for concurrent use.
type DataChunk struct {
	env      *vector.Env
	raw      RawChunk
	writable bool
	cols     []vector.Vector
}

// NewDataChunk returns a writable DataChunk over raw, for building a chunk to
// hand to the engine.
func NewDataChunk(env *vector.Env, raw RawChunk) *DataChunk {
	return &DataChunk{env: env, raw: raw, writable: true, cols: make([]vector.Vector, raw.ColumnCount())}
}

// BorrowDataChunk returns a read-only DataChunk over a chunk produced by the
// engine. The DataChunk must not be used after the engine releases raw.
func BorrowDataChunk(env *vector.Env, raw RawChunk) *DataChunk {
	return &DataChunk{env: env, raw: raw, cols: make([]vector.Vector, raw.ColumnCount())}
}

// ColumnCount returns the number of columns.
func (c *DataChunk) ColumnCount() int { return len(c.cols) }

// ColumnType returns the logical type of column i.
func (c *DataChunk) ColumnType(i int) *logicaltype.T { return c.raw.Column(i).Type() }

// RowCount returns the number of rows.
func (c *DataChunk) RowCount() int { return c.raw.Size() }

// SetRowCount sets the number of rows. Column vectors obtained before the
// call are stale afterwards; staged writes in them are discarded.
func (c *DataChunk) SetRowCount(n int) error {
	if n < 0 || n > MaxChunkSize {
		return base.OutOfRangef("row count %d not in [0, %d]", n, MaxChunkSize)
	}
	if !c.writable {
		return errors.Mark(errors.New("cannot resize a borrowed chunk"), base.ErrReadOnly)
	}
	if err := c.raw.SetSize(n); err != nil {
		return err
	}
	clear(c.cols)
	return nil
}

func (c *DataChunk) checkColumn(i int) error {
	if i < 0 || i >= len(c.cols) {
		return base.OutOfRangef("column %d out of range [0, %d)", i, len(c.cols))
	}
	return nil
}

// ColumnVector returns the vector of column i.
func (c *DataChunk) ColumnVector(i int) (vector.Vector, error) {
	if err := c.checkColumn(i); err != nil {
		return nil, err
	}
	if c.cols[i] != nil {
		return c.cols[i], nil
	}
	create := vector.Borrow
	if c.writable {
		create = vector.Create
	}
	v, err := create(c.env, c.raw.Column(i), c.raw.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "column %d", i)
	}
	c.cols[i] = v
	return v, nil
}

// ColumnValues decodes every row of column i.
func (c *DataChunk) ColumnValues(i int) ([]any, error) {
	v, err := c.ColumnVector(i)
	if err != nil {
		return nil, err
	}
	return vector.ToArray(v)
}

// VisitColumnValues calls fn with every row of column i, stopping at the first
// error.
func (c *DataChunk) VisitColumnValues(i int, fn func(row int, v any) error) error {
	v, err := c.ColumnVector(i)
	if err != nil {
		return err
	}
	for row := 0; row < v.Len(); row++ {
		x, err := v.Get(row)
		if err != nil {
			return err
		}
		if err := fn(row, x); err != nil {
			return err
		}
	}
	return nil
}

// SetColumnValues encodes vals, which must have one value per row, into
// column i and flushes it.
func (c *DataChunk) SetColumnValues(i int, vals []any) error {
	v, err := c.ColumnVector(i)
	if err != nil {
		return err
	}
	if len(vals) != v.Len() {
		return base.OutOfRangef("%d values for a chunk of %d rows", len(vals), v.Len())
	}
	if err := vector.SetAll(v, vals); err != nil {
		return errors.Wrapf(err, "column %d", i)
	}
	return v.Flush()
}

// Columns decodes the chunk in column-major order.
func (c *DataChunk) Columns() ([][]any, error) {
	out := make([][]any, len(c.cols))
	for i := range out {
		var err error
		if out[i], err = c.ColumnValues(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetColumns sets the row count to the length of the columns, which must all
// be equal, and encodes them.
func (c *DataChunk) SetColumns(cols [][]any) error {
	if len(cols) != len(c.cols) {
		return base.TypeMismatchf("%d columns for a chunk of %d columns", len(cols), len(c.cols))
	}
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	for i, col := range cols {
		if len(col) != n {
			return base.OutOfRangef("column %d has %d values, column 0 has %d", i, len(col), n)
		}
	}
	if err := c.SetRowCount(n); err != nil {
		return err
	}
	for i, col := range cols {
		if err := c.SetColumnValues(i, col); err != nil {
			return err
		}
	}
	return nil
}

// VisitRowValues calls fn with every column of row, stopping at the first
// error.
func (c *DataChunk) VisitRowValues(row int, fn func(col int, v any) error) error {
	if err := base.CheckRow(row, c.RowCount()); err != nil {
		return err
	}
	for i := range c.cols {
		v, err := c.ColumnVector(i)
		if err != nil {
			return err
		}
		x, err := v.Get(row)
		if err != nil {
			return errors.Wrapf(err, "column %d", i)
		}
		if err := fn(i, x); err != nil {
			return err
		}
	}
	return nil
}

// Rows decodes the chunk in row-major order.
func (c *DataChunk) Rows() ([][]any, error) {
	cols, err := c.Columns()
	if err != nil {
		return nil, err
	}
	return transpose(cols, c.RowCount()), nil
}

// SetRows sets the row count to len(rows) and encodes them. Every row must
// have one value per column.
func (c *DataChunk) SetRows(rows [][]any) error {
	cols := make([][]any, len(c.cols))
	for i := range cols {
		cols[i] = make([]any, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(c.cols) {
			return base.TypeMismatchf("row %d has %d values for a chunk of %d columns", r, len(row), len(c.cols))
		}
		for i, x := range row {
			cols[i][r] = x
		}
	}
	return c.SetColumns(cols)
}

// RowObjects decodes the chunk as one map per row, keyed by the given column
// names.
func (c *DataChunk) RowObjects(names []string) ([]map[string]any, error) {
	if err := c.checkNames(names); err != nil {
		return nil, err
	}
	rows, err := c.Rows()
	if err != nil {
		return nil, err
	}
	return rowObjects(names, rows), nil
}

// Flush commits staged writes in every column created so far.
func (c *DataChunk) Flush() error {
	for i, v := range c.cols {
		if v == nil {
			continue
		}
		if err := v.Flush(); err != nil {
			return errors.Wrapf(err, "column %d", i)
		}
	}
	return nil
}

// Reset empties the chunk. Column vectors obtained before the call are stale.
func (c *DataChunk) Reset() {
	c.raw.Reset()
	clear(c.cols)
}
