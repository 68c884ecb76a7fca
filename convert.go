// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package duckvec

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ValueConverter maps a decoded value of the given type to another
// representation. Converters recurse through nested values themselves.
type ValueConverter interface {
	ConvertValue(v any, typ *logicaltype.T) (any, error)
}

// JSONConverter converts decoded values to values that encode to JSON without
// loss: nil, bool, float64, string, []any and map[string]any. Integers wider
// than 32 bits, decimals and temporal values become strings. Non-finite
// floats become "NaN", "Infinity" and "-Infinity".
type JSONConverter struct{}

// DefaultJSONConverter is the converter used by MarshalJSON.
var DefaultJSONConverter ValueConverter = JSONConverter{}

var _ ValueConverter = JSONConverter{}

// ConvertValue implements ValueConverter.
func (c JSONConverter) ConvertValue(v any, typ *logicaltype.T) (any, error) {
	if v == nil {
		return nil, nil
	}
	mismatch := func() error {
		return base.TypeMismatchf("%T is not a decoded %s value", v, typ)
	}
	switch typ.Kind() {
	case logicaltype.KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch()
		}
		return b, nil

	case logicaltype.KindTinyInt, logicaltype.KindSmallInt, logicaltype.KindInteger,
		logicaltype.KindUTinyInt, logicaltype.KindUSmallInt, logicaltype.KindUInteger:
		switch t := v.(type) {
		case int8:
			return float64(t), nil
		case int16:
			return float64(t), nil
		case int32:
			return float64(t), nil
		case uint8:
			return float64(t), nil
		case uint16:
			return float64(t), nil
		case uint32:
			return float64(t), nil
		}
		return nil, mismatch()

	case logicaltype.KindFloat, logicaltype.KindDouble:
		var f float64
		switch t := v.(type) {
		case float32:
			f = float64(t)
		case float64:
			f = t
		default:
			return nil, mismatch()
		}
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		}
		return f, nil

	case logicaltype.KindBigInt:
		if x, ok := v.(int64); ok {
			return strconv.FormatInt(x, 10), nil
		}
		return nil, mismatch()

	case logicaltype.KindUBigInt:
		if x, ok := v.(uint64); ok {
			return strconv.FormatUint(x, 10), nil
		}
		return nil, mismatch()

	case logicaltype.KindHugeInt:
		if x, ok := v.(value.HugeInt); ok {
			return x.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindUHugeInt:
		if x, ok := v.(value.UHugeInt); ok {
			return x.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindVarInt:
		if x, ok := v.(*big.Int); ok && x != nil {
			return x.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindDecimal:
		if x, ok := v.(value.Decimal); ok {
			return x.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindVarchar, logicaltype.KindEnum:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, mismatch()

	case logicaltype.KindBlob:
		if b, ok := v.([]byte); ok {
			return value.FormatBlob(b), nil
		}
		return nil, mismatch()

	case logicaltype.KindUUID:
		if u, ok := v.(uuid.UUID); ok {
			return u.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindBit:
		if b, ok := v.(value.Bit); ok {
			return b.String(), nil
		}
		return nil, mismatch()

	case logicaltype.KindDate, logicaltype.KindTime, logicaltype.KindTimeTZ,
		logicaltype.KindTimestamp, logicaltype.KindTimestampS, logicaltype.KindTimestampMS,
		logicaltype.KindTimestampNS, logicaltype.KindTimestampTZ:
		switch v.(type) {
		case value.Date, value.Time, value.TimeTZ, value.Timestamp, value.TimestampS,
			value.TimestampMS, value.TimestampNS, value.TimestampTZ:
			return value.Format(v), nil
		}
		return nil, mismatch()

	case logicaltype.KindInterval:
		iv, ok := v.(value.Interval)
		if !ok {
			return nil, mismatch()
		}
		return map[string]any{
			"months": float64(iv.Months),
			"days":   float64(iv.Days),
			"micros": strconv.FormatInt(iv.Micros, 10),
		}, nil

	case logicaltype.KindList:
		l, ok := v.(value.List)
		if !ok {
			return nil, mismatch()
		}
		return c.convertElems(l, typ.Child())

	case logicaltype.KindArray:
		a, ok := v.(value.Array)
		if !ok {
			return nil, mismatch()
		}
		return c.convertElems(a, typ.Child())

	case logicaltype.KindStruct:
		s, ok := v.(value.Struct)
		if !ok {
			return nil, mismatch()
		}
		out := make(map[string]any, len(s))
		for _, e := range s {
			i := typ.EntryIndex(e.Name)
			if i < 0 {
				return nil, base.TypeMismatchf("%s has no entry %q", typ, e.Name)
			}
			x, err := c.ConvertValue(e.Value, typ.EntryType(i))
			if err != nil {
				return nil, errors.Wrapf(err, "entry %q", e.Name)
			}
			out[e.Name] = x
		}
		return out, nil

	case logicaltype.KindMap:
		m, ok := v.(value.Map)
		if !ok {
			return nil, mismatch()
		}
		out := make([]any, len(m))
		for i, e := range m {
			k, err := c.ConvertValue(e.Key, typ.Key())
			if err != nil {
				return nil, errors.Wrapf(err, "map entry %d key", i)
			}
			x, err := c.ConvertValue(e.Value, typ.Value())
			if err != nil {
				return nil, errors.Wrapf(err, "map entry %d value", i)
			}
			out[i] = map[string]any{"key": k, "value": x}
		}
		return out, nil

	case logicaltype.KindUnion:
		u, ok := v.(value.Union)
		if !ok {
			return nil, mismatch()
		}
		i := typ.EntryIndex(u.Tag)
		if i < 0 {
			return nil, base.TypeMismatchf("%s has no member %q", typ, u.Tag)
		}
		x, err := c.ConvertValue(u.Value, typ.EntryType(i))
		if err != nil {
			return nil, errors.Wrapf(err, "member %q", u.Tag)
		}
		return map[string]any{"tag": u.Tag, "value": x}, nil

	case logicaltype.KindSQLNull:
		return nil, mismatch()
	}
	return nil, base.UnsupportedTypef("no JSON form for %s", typ)
}

func (c JSONConverter) convertElems(elems []any, typ *logicaltype.T) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		x, err := c.ConvertValue(e, typ)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = x
	}
	return out, nil
}

// MarshalJSON encodes a decoded value of type typ as JSON using
// DefaultJSONConverter.
func MarshalJSON(v any, typ *logicaltype.T) ([]byte, error) {
	x, err := DefaultJSONConverter.ConvertValue(v, typ)
	if err != nil {
		return nil, err
	}
	return json.Marshal(x)
}

// ConvertColumnValues decodes column i and converts every value.
func (c *DataChunk) ConvertColumnValues(i int, conv ValueConverter) ([]any, error) {
	if err := c.checkColumn(i); err != nil {
		return nil, err
	}
	typ := c.ColumnType(i)
	out := make([]any, 0, c.RowCount())
	err := c.VisitColumnValues(i, func(row int, v any) error {
		x, err := conv.ConvertValue(v, typ)
		if err != nil {
			return errors.Wrapf(err, "column %d row %d", i, row)
		}
		out = append(out, x)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertColumns converts every column, in column-major order.
func (c *DataChunk) ConvertColumns(conv ValueConverter) ([][]any, error) {
	cols := make([][]any, len(c.cols))
	for i := range cols {
		col, err := c.ConvertColumnValues(i, conv)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

// ConvertRowValues decodes row and converts every column of it.
func (c *DataChunk) ConvertRowValues(row int, conv ValueConverter) ([]any, error) {
	out := make([]any, 0, len(c.cols))
	err := c.VisitRowValues(row, func(col int, v any) error {
		x, err := conv.ConvertValue(v, c.ColumnType(col))
		if err != nil {
			return errors.Wrapf(err, "column %d row %d", col, row)
		}
		out = append(out, x)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertRows converts the chunk in row-major order.
func (c *DataChunk) ConvertRows(conv ValueConverter) ([][]any, error) {
	cols, err := c.ConvertColumns(conv)
	if err != nil {
		return nil, err
	}
	return transpose(cols, c.RowCount()), nil
}

// ConvertRowObjects converts the chunk as one map per row, keyed by the given
// column names.
func (c *DataChunk) ConvertRowObjects(names []string, conv ValueConverter) ([]map[string]any, error) {
	if err := c.checkNames(names); err != nil {
		return nil, err
	}
	rows, err := c.ConvertRows(conv)
	if err != nil {
		return nil, err
	}
	return rowObjects(names, rows), nil
}

// ColumnsObject decodes the chunk as a map from column name to the column's
// values. Repeated names collect the values of every such column in column
// order.
func (c *DataChunk) ColumnsObject(names []string) (map[string][]any, error) {
	if err := c.checkNames(names); err != nil {
		return nil, err
	}
	cols, err := c.Columns()
	if err != nil {
		return nil, err
	}
	return columnsObject(names, cols), nil
}

// ConvertColumnsObject is ColumnsObject with every value converted.
func (c *DataChunk) ConvertColumnsObject(names []string, conv ValueConverter) (map[string][]any, error) {
	if err := c.checkNames(names); err != nil {
		return nil, err
	}
	cols, err := c.ConvertColumns(conv)
	if err != nil {
		return nil, err
	}
	return columnsObject(names, cols), nil
}

func (c *DataChunk) checkNames(names []string) error {
	if len(names) != len(c.cols) {
		return base.TypeMismatchf("%d names for a chunk of %d columns", len(names), len(c.cols))
	}
	return nil
}

func columnsObject(names []string, cols [][]any) map[string][]any {
	out := make(map[string][]any, len(names))
	for i, name := range names {
		out[name] = append(out[name], cols[i]...)
	}
	return out
}

func rowObjects(names []string, rows [][]any) []map[string]any {
	out := make([]map[string]any, len(rows))
	for r, row := range rows {
		out[r] = make(map[string]any, len(names))
		for i, name := range names {
			out[r][name] = row[i]
		}
	}
	return out
}

func transpose(cols [][]any, n int) [][]any {
	rows := make([][]any, n)
	for r := range rows {
		rows[r] = make([]any, len(cols))
		for i := range cols {
			rows[r][i] = cols[i][r]
		}
	}
	return rows
}
