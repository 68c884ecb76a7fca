// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package memengine is an in-memory reference engine for the vector codec. It
// allocates vector buffers in Go memory with the engine's exact layouts and
// keeps out-of-line string payloads in a chunked arena. It backs the tests
// and the duckvec tool, and shows what a real engine binding must provide.
package memengine

import (
	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/vector"
)

// Engine is the reference engine. It implements vector.Host. An Engine may be
// used concurrently; the vectors and chunks it creates may not.
type Engine struct {
	opts *Options
	heap stringHeap
	env  *vector.Env
}

var _ vector.Host = (*Engine)(nil)

// New returns a new engine.
func New(opts *Options) (*Engine, error) {
	opts = opts.EnsureDefaults()
	e := &Engine{opts: opts}
	e.heap.init(opts.HeapBlockSize)
	env, err := vector.NewEnv(e)
	if err != nil {
		return nil, err
	}
	e.env = env
	return e, nil
}

// Env returns the codec environment for this engine.
func (e *Engine) Env() *vector.Env { return e.env }

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *Metrics { return e.opts.Metrics }

// SizeofBool implements vector.Host.
func (e *Engine) SizeofBool() int { return e.opts.BoolWidth }

// ReadPointer implements vector.Host.
func (e *Engine) ReadPointer(ptr uint64, n int) ([]byte, error) {
	return e.heap.read(ptr, n)
}

// HeapStats returns the number of heap blocks and stored payload bytes.
func (e *Engine) HeapStats() (blocks int, bytes int64) {
	return e.heap.stats()
}

// NewVector allocates a zeroed vector of typ with room for n rows. Every row
// is valid.
func (e *Engine) NewVector(typ *logicaltype.T, n int) (*Vector, error) {
	if n < 0 {
		return nil, errors.AssertionFailedf("negative row count %d", n)
	}
	return newVector(e, typ, n)
}

// NewChunk allocates a chunk with one vector per type, each with room for
// capacity rows. The chunk's size starts at zero.
func (e *Engine) NewChunk(types []*logicaltype.T, capacity int) (*Chunk, error) {
	c := &Chunk{capacity: capacity, cols: make([]*Vector, len(types))}
	for i, typ := range types {
		v, err := e.NewVector(typ, capacity)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i)
		}
		c.cols[i] = v
	}
	return c, nil
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.opts.Verbose {
		e.opts.Logger.Infof(format, args...)
	}
}
