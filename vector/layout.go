// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vector

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/internal/binfmt"
	"github.com/duckvec/duckvec/value"
)

// Layout returns an annotated dump of the engine buffers behind v: the
// validity words, one line per cell of the data region, and the layouts of
// any children indented beneath. Staged writes are not shown; call Flush
// first.
func Layout(v Vector) (string, error) {
	var sb strings.Builder
	if err := layout(&sb, v, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func layout(w *strings.Builder, v Vector, indent string) error {
	c := v.core()
	fmt.Fprintf(w, "%s%s rows=%d\n", indent, c.typ, c.n)
	emit := func(f *binfmt.Formatter) {
		for _, l := range f.Lines(indent + "  ") {
			w.WriteString(l)
			w.WriteByte('\n')
		}
	}

	if words := c.raw.Validity(); words == nil {
		fmt.Fprintf(w, "%s  validity: absent\n", indent)
	} else {
		buf := make([]byte, 8*len(words))
		for i, word := range words {
			binary.LittleEndian.PutUint64(buf[i*8:], word)
		}
		f := binfmt.New(buf)
		validityToBinFormatter(f, len(words))
		emit(f)
	}

	var stride int
	var children []Vector
	var names []string
	cellComment := func(i int) string { return rowComment(v, i) }
	switch t := v.(type) {
	case *Strings:
		stride = StringCellSize
		cellComment = func(i int) string { return stringCellComment(t, i) }
	case *Decimal:
		stride = t.stride
	case *Enum:
		stride = t.width
	case *List:
		stride = ListEntrySize
		cellComment = func(i int) string { return listEntryComment(t, i) }
		children, names = []Vector{t.st.child}, []string{"child"}
	case *Map:
		stride = ListEntrySize
		cellComment = func(i int) string { return listEntryComment(t.List, i) }
		children, names = []Vector{t.st.child}, []string{"entries"}
	case *Struct:
		children = t.children
		for k := range children {
			names = append(names, t.typ.EntryName(k))
		}
	case *Union:
		children = t.children
		names = append(names, "tag")
		for k := 0; k < t.typ.EntryCount(); k++ {
			names = append(names, t.typ.EntryName(k))
		}
	case *Array:
		children, names = []Vector{t.child}, []string{"child"}
	default:
		stride = fixedWidth(v)
	}

	if stride > 0 && c.n > 0 {
		data := c.raw.Data()
		start, end := c.offset*stride, (c.offset+c.n)*stride
		if end > len(data) {
			return base.CorruptLayoutf("%s data region is %d bytes, need %d", c.typ, len(data), end)
		}
		f := binfmt.New(data[start:end])
		for i := 0; i < c.n; i++ {
			f.HexBytesln(stride, "%s", cellComment(i))
		}
		emit(f)
	}
	for k, child := range children {
		fmt.Fprintf(w, "%s  %s:\n", indent, names[k])
		if err := layout(w, child, indent+"    "); err != nil {
			return err
		}
	}
	return nil
}

// fixedWidth returns the cell width of a *Fixed[T] of any T.
func fixedWidth(v Vector) int {
	type widther interface{ Width() int }
	if f, ok := v.(widther); ok {
		return f.Width()
	}
	return 0
}

func rowComment(v Vector, i int) string {
	if !v.Valid(i) {
		return fmt.Sprintf("row %d: NULL", i)
	}
	x, err := v.Get(i)
	if err != nil {
		return fmt.Sprintf("row %d: error: %v", i, err)
	}
	return fmt.Sprintf("row %d: %s", i, value.Format(x))
}

func stringCellComment(s *Strings, i int) string {
	cell, err := s.cell(i, StringCellSize)
	if err != nil {
		return fmt.Sprintf("row %d: error: %v", i, err)
	}
	n := binary.LittleEndian.Uint32(cell[0:4])
	loc := "inline"
	if n > StringInlineMax {
		loc = fmt.Sprintf("ptr=%#x", binary.LittleEndian.Uint64(cell[8:16]))
	}
	return fmt.Sprintf("len=%d %s; %s", n, loc, rowComment(s, i))
}

func listEntryComment(l *List, i int) string {
	offset, length, err := l.Entry(i)
	if err != nil {
		return fmt.Sprintf("row %d: error: %v", i, err)
	}
	if !l.Valid(i) {
		return fmt.Sprintf("row %d: NULL", i)
	}
	return fmt.Sprintf("row %d: offset=%d length=%d", i, offset, length)
}
