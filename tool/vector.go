// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/memengine"
	"github.com/duckvec/duckvec/value"
	"github.com/duckvec/duckvec/vector"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// vectorT implements the vector tools, including both configuration state and
// the commands themselves.
type vectorT struct {
	Encode *cobra.Command
	Layout *cobra.Command

	opts      *memengine.Options
	boolWidth int
	offset    int
	length    int
	verbose   bool
}

func newVector(opts *memengine.Options) *vectorT {
	v := &vectorT{opts: opts}
	v.Encode = &cobra.Command{
		Use:   "encode <type> <json-values>...",
		Short: "encode values and print them decoded",
		Long: `
Encode one JSON value per row into a vector of the given type in the
reference engine, flush it, borrow it back and print every row as decoded.
JSON null is SQL NULL.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: v.runEncode,
	}
	v.Layout = &cobra.Command{
		Use:   "layout <type> <json-values>...",
		Short: "encode values and print the vector's buffers",
		Long: `
Encode one JSON value per row into a vector of the given type in the
reference engine, flush it and print an annotated dump of its validity
words, data cells and child vectors.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: v.runLayout,
	}
	for _, cmd := range []*cobra.Command{v.Encode, v.Layout} {
		cmd.Flags().IntVar(&v.boolWidth, "bool-width", 1, "storage width of BOOLEAN cells")
		cmd.Flags().IntVar(&v.offset, "offset", 0, "first row of the slice to print")
		cmd.Flags().IntVar(&v.length, "length", -1, "number of rows to print (-1 for all)")
		cmd.Flags().BoolVarP(&v.verbose, "verbose", "v", false, "log engine activity")
	}
	return v
}

// build encodes the JSON values in args[1:] into a vector of type args[0]
// and returns it borrowed read-only from the flushed engine buffers, sliced
// according to the flags.
func (v *vectorT) build(args []string) (vector.Vector, error) {
	typ, err := logicaltype.Parse(args[0])
	if err != nil {
		return nil, err
	}
	opts := *v.opts
	opts.BoolWidth = v.boolWidth
	opts.Verbose = v.verbose
	e, err := memengine.New(&opts)
	if err != nil {
		return nil, err
	}
	vals := args[1:]
	raw, err := e.NewVector(typ, len(vals))
	if err != nil {
		return nil, err
	}
	w, err := vector.Create(e.Env(), raw, len(vals))
	if err != nil {
		return nil, err
	}
	for i, s := range vals {
		x, err := parseJSONValue(typ, s)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		if err := w.Set(i, x); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	r, err := vector.Borrow(e.Env(), raw, len(vals))
	if err != nil {
		return nil, err
	}
	length := v.length
	if length < 0 {
		length = r.Len() - v.offset
	}
	return r.Slice(v.offset, length)
}

func (v *vectorT) runEncode(cmd *cobra.Command, args []string) error {
	vec, err := v.build(args)
	if err != nil {
		return err
	}
	vals, err := vector.ToArray(vec)
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "%s: %d rows\n", vec.Type(), vec.Len())
	tbl := tablewriter.NewWriter(stdout)
	tbl.SetHeader([]string{"Row", "Valid", "Value"})
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAutoWrapText(false)
	tbl.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, x := range vals {
		tbl.Append([]string{
			strconv.Itoa(v.offset + i),
			strconv.FormatBool(vec.Valid(i)),
			value.Format(x),
		})
	}
	tbl.Render()
	return nil
}

func (v *vectorT) runLayout(cmd *cobra.Command, args []string) error {
	vec, err := v.build(args)
	if err != nil {
		return err
	}
	s, err := vector.Layout(vec)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), s)
	return nil
}
