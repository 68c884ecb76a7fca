// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements the duckvec debugging commands. They build vectors
// in the reference engine from JSON values and print how the codec decodes
// and lays them out.
package tool

import (
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/memengine"
	"github.com/spf13/cobra"
)

// T is the container for all of the debugging tools.
type T struct {
	Commands []*cobra.Command
	vec      *vectorT
	typ      *typeT
	opts     memengine.Options
}

// Option is a tool option.
type Option func(*T)

// WithLogger sets the logger used by the reference engine when verbose output
// is requested.
func WithLogger(l base.Logger) Option {
	return func(t *T) {
		t.opts.Logger = l
	}
}

// New creates a new debugging tool.
func New(opts ...Option) *T {
	t := &T{}
	for _, opt := range opts {
		opt(t)
	}
	t.vec = newVector(&t.opts)
	t.typ = newType()
	t.Commands = []*cobra.Command{
		t.vec.Encode,
		t.vec.Layout,
		t.typ.Root,
	}
	return t
}
