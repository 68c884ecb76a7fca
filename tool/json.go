// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/base"
	"github.com/duckvec/duckvec/logicaltype"
	"github.com/duckvec/duckvec/value"
	"github.com/goccy/go-json"
)

// parseJSONValue parses s as JSON and converts it to a value that the codec
// for typ accepts.
func parseJSONValue(typ *logicaltype.T, s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, errors.Wrapf(err, "parsing %q", s)
	}
	return fromJSON(typ, x)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, base.TypeMismatchf("cannot parse %q as a timestamp", s)
}

// fromJSON converts a decoded JSON value (nil, bool, json.Number, string,
// []any or map[string]any) to the Go value the codec for typ expects.
func fromJSON(typ *logicaltype.T, x any) (any, error) {
	if x == nil {
		return nil, nil
	}
	mismatch := func() error {
		return base.TypeMismatchf("JSON %T is not a %s value", x, typ)
	}
	switch typ.Kind() {
	case logicaltype.KindBoolean:
		return x, nil

	case logicaltype.KindTinyInt, logicaltype.KindSmallInt, logicaltype.KindInteger,
		logicaltype.KindBigInt, logicaltype.KindUTinyInt, logicaltype.KindUSmallInt,
		logicaltype.KindUInteger, logicaltype.KindUBigInt, logicaltype.KindHugeInt,
		logicaltype.KindUHugeInt, logicaltype.KindVarInt:
		var s string
		switch t := x.(type) {
		case json.Number:
			s = t.String()
		case string:
			s = t
		default:
			return nil, mismatch()
		}
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, base.TypeMismatchf("%q is not an integer", s)
		}
		return b, nil

	case logicaltype.KindFloat, logicaltype.KindDouble:
		n, ok := x.(json.Number)
		if !ok {
			return nil, mismatch()
		}
		return n.Float64()

	case logicaltype.KindDecimal:
		switch t := x.(type) {
		case json.Number:
			return t.String(), nil
		case string:
			return t, nil
		}
		return nil, mismatch()

	case logicaltype.KindVarchar, logicaltype.KindBlob, logicaltype.KindBit,
		logicaltype.KindUUID, logicaltype.KindEnum:
		if _, ok := x.(string); !ok {
			return nil, mismatch()
		}
		return x, nil

	case logicaltype.KindDate, logicaltype.KindTimestamp, logicaltype.KindTimestampTZ,
		logicaltype.KindTimestampS, logicaltype.KindTimestampMS, logicaltype.KindTimestampNS:
		s, ok := x.(string)
		if !ok {
			return nil, mismatch()
		}
		return parseTime(s)

	case logicaltype.KindTime:
		s, ok := x.(string)
		if !ok {
			return nil, mismatch()
		}
		t, err := time.Parse("15:04:05.999999", s)
		if err != nil {
			return nil, base.TypeMismatchf("cannot parse %q as a time", s)
		}
		h, m, sec := t.Clock()
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
			time.Duration(sec)*time.Second + time.Duration(t.Nanosecond()), nil

	case logicaltype.KindTimeTZ:
		m, ok := x.(map[string]any)
		if !ok {
			return nil, mismatch()
		}
		micros, err := jsonInt(m, "micros")
		if err != nil {
			return nil, err
		}
		offset, err := jsonInt(m, "offset")
		if err != nil {
			return nil, err
		}
		if micros < 0 {
			return nil, base.OutOfRangef("negative micros %d", micros)
		}
		return value.TimeTZ{Micros: uint64(micros), Offset: int32(offset)}, nil

	case logicaltype.KindInterval:
		m, ok := x.(map[string]any)
		if !ok {
			return nil, mismatch()
		}
		var iv [3]int64
		for i, k := range []string{"months", "days", "micros"} {
			var err error
			if iv[i], err = jsonInt(m, k); err != nil {
				return nil, err
			}
		}
		return value.Interval{Months: int32(iv[0]), Days: int32(iv[1]), Micros: iv[2]}, nil

	case logicaltype.KindList, logicaltype.KindArray:
		elems, ok := x.([]any)
		if !ok {
			return nil, mismatch()
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			var err error
			if out[i], err = fromJSON(typ.Child(), e); err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
		}
		return out, nil

	case logicaltype.KindStruct:
		m, ok := x.(map[string]any)
		if !ok {
			return nil, mismatch()
		}
		out := make(map[string]any, len(m))
		for name, e := range m {
			k := typ.EntryIndex(name)
			if k < 0 {
				return nil, base.TypeMismatchf("%s has no entry %q", typ, name)
			}
			var err error
			if out[name], err = fromJSON(typ.EntryType(k), e); err != nil {
				return nil, errors.Wrapf(err, "entry %q", name)
			}
		}
		return out, nil

	case logicaltype.KindMap:
		return mapFromJSON(typ, x)

	case logicaltype.KindUnion:
		m, ok := x.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, base.TypeMismatchf("a %s value is an object with one member", typ)
		}
		for tag, e := range m {
			k := typ.EntryIndex(tag)
			if k < 0 {
				return nil, base.TypeMismatchf("%s has no member %q", typ, tag)
			}
			v, err := fromJSON(typ.EntryType(k), e)
			if err != nil {
				return nil, errors.Wrapf(err, "member %q", tag)
			}
			return value.Union{Tag: tag, Value: v}, nil
		}
	}
	return nil, base.UnsupportedTypef("no JSON form for %s", typ)
}

// mapFromJSON accepts an object, whose keys are converted to the map's key
// type in sorted order, or an array of [key, value] pairs.
func mapFromJSON(typ *logicaltype.T, x any) (any, error) {
	var pairs [][2]any
	switch t := x.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var key any = k
			if typ.Key().Kind() != logicaltype.KindVarchar {
				key = json.Number(k)
			}
			pairs = append(pairs, [2]any{key, t[k]})
		}
	case []any:
		for i, e := range t {
			p, ok := e.([]any)
			if !ok || len(p) != 2 {
				return nil, base.TypeMismatchf("map entry %d is not a [key, value] pair", i)
			}
			pairs = append(pairs, [2]any{p[0], p[1]})
		}
	default:
		return nil, base.TypeMismatchf("JSON %T is not a %s value", x, typ)
	}
	out := make(value.Map, len(pairs))
	for i, p := range pairs {
		k, err := fromJSON(typ.Key(), p[0])
		if err != nil {
			return nil, errors.Wrapf(err, "map key %d", i)
		}
		v, err := fromJSON(typ.Value(), p[1])
		if err != nil {
			return nil, errors.Wrapf(err, "map value %d", i)
		}
		out[i] = value.MapEntry{Key: k, Value: v}
	}
	return out, nil
}

func jsonInt(m map[string]any, key string) (int64, error) {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0, base.TypeMismatchf("missing integer %q", key)
	}
	return n.Int64()
}
