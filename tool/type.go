// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"

	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/memengine"
	"github.com/spf13/cobra"
)

// typeT implements the type tools.
type typeT struct {
	Root  *cobra.Command
	Parse *cobra.Command
}

func newType() *typeT {
	t := &typeT{}
	t.Root = &cobra.Command{
		Use:   "type",
		Short: "logical type tools",
	}
	t.Parse = &cobra.Command{
		Use:   "parse <types>...",
		Short: "parse type strings and print their canonical form",
		Long: `
Parse each argument as a type string and print its canonical spelling, its
kind and, for types with a data region, the width in bytes of one cell.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: t.runParse,
	}
	t.Root.AddCommand(t.Parse)
	return t
}

func (t *typeT) runParse(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	for _, arg := range args {
		typ, err := logicaltype.Parse(arg)
		if err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", arg, err)
			continue
		}
		fmt.Fprintf(stdout, "%s: kind=%s", typ, typ.Kind())
		if stride, err := memengine.Stride(typ, 1); err == nil && stride > 0 {
			fmt.Fprintf(stdout, " stride=%d", stride)
		}
		if n := typ.LeafCount(); n > 1 {
			fmt.Fprintf(stdout, " leaves=%d", n)
		}
		fmt.Fprintln(stdout)
	}
	return nil
}
