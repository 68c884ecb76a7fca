// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package logicaltype

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/duckvec/duckvec/internal/strparse"
)

// aliases maps alternative spellings accepted by Parse to kinds.
var aliases = map[string]Kind{
	"BOOL":        KindBoolean,
	"LOGICAL":     KindBoolean,
	"INT1":        KindTinyInt,
	"INT2":        KindSmallInt,
	"SHORT":       KindSmallInt,
	"INT":         KindInteger,
	"INT4":        KindInteger,
	"SIGNED":      KindInteger,
	"INT8":        KindBigInt,
	"LONG":        KindBigInt,
	"INT128":      KindHugeInt,
	"UINT128":     KindUHugeInt,
	"REAL":        KindFloat,
	"FLOAT4":      KindFloat,
	"FLOAT8":      KindDouble,
	"STRING":      KindVarchar,
	"TEXT":        KindVarchar,
	"BYTEA":       KindBlob,
	"BINARY":      KindBlob,
	"VARBINARY":   KindBlob,
	"BITSTRING":   KindBit,
	"DATETIME":    KindTimestamp,
	"TIMESTAMPTZ": KindTimestampTZ,
	"TIMETZ":      KindTimeTZ,
	"NUMERIC":     KindDecimal,
	"BIGNUM":      KindVarInt,
	"NULL":        KindSQLNull,
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindName)+len(aliases))
	for k := KindBoolean; k < kindCount; k++ {
		m[kindName[k]] = k
	}
	for name, k := range aliases {
		m[name] = k
	}
	return m
}()

// Parse parses a type declaration such as `INTEGER[]`,
// `STRUCT("a" DECIMAL(9,2), "b" VARCHAR[3])` or `MAP(VARCHAR, DOUBLE)`. It
// accepts the spelling produced by T.String.
func Parse(s string) (_ *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	p := strparse.MakeParser("()[],", s)
	t := parseType(&p)
	if !p.Done() {
		p.Errf("unexpected trailing input %q", p.Remaining())
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *T {
	return Must(Parse(s))
}

func parseType(p *strparse.Parser) *T {
	t := parseBase(p)
	for p.TryExpect("[") {
		if p.TryExpect("]") {
			t = List(t)
			continue
		}
		n := p.Int()
		p.Expect("]")
		var err error
		t, err = Array(t, n)
		check(p, err)
	}
	return t
}

func parseBase(p *strparse.Parser) *T {
	name := strings.ToUpper(p.Next())
	if name == "" {
		p.Errf("expected type name")
	}
	switch name {
	case "TIME", "TIMESTAMP":
		if p.TryExpect("WITH") {
			p.Expect("TIME", "ZONE")
			if name == "TIME" {
				return TimeTZ
			}
			return TimestampTZ
		}
	case "DOUBLE":
		p.TryExpect("PRECISION")
	}
	k, ok := kindByName[name]
	if !ok {
		p.Errf("unknown type %q", name)
	}
	switch k {
	case KindDecimal:
		width, scale := DefaultDecimalWidth, DefaultDecimalScale
		if p.TryExpect("(") {
			width = p.Int()
			scale = 0
			if p.TryExpect(",") {
				scale = p.Int()
			}
			p.Expect(")")
		}
		t, err := Decimal(width, scale)
		check(p, err)
		return t
	case KindList:
		p.Expect("(")
		child := parseType(p)
		p.Expect(")")
		return List(child)
	case KindMap:
		p.Expect("(")
		key := parseType(p)
		p.Expect(",")
		value := parseType(p)
		p.Expect(")")
		return Map(key, value)
	case KindStruct, KindUnion:
		names, types := parseEntries(p)
		var t *T
		var err error
		if k == KindStruct {
			t, err = Struct(names, types)
		} else {
			t, err = Union(names, types)
		}
		check(p, err)
		return t
	case KindEnum:
		var values []string
		p.Expect("(")
		for {
			values = append(values, p.Quoted('\''))
			if !p.TryExpect(",") {
				break
			}
		}
		p.Expect(")")
		t, err := Enum(values)
		check(p, err)
		return t
	case KindArray:
		p.Errf("ARRAY must be declared with the T[n] form")
	}
	t, err := FromKind(k)
	check(p, err)
	return t
}

func parseEntries(p *strparse.Parser) (names []string, types []*T) {
	p.Expect("(")
	for {
		name := p.Next()
		if name == "" || name == ")" || name == "," {
			p.Errf("expected entry name")
		}
		names = append(names, strparse.Unquote(name))
		types = append(types, parseType(p))
		if !p.TryExpect(",") {
			break
		}
	}
	p.Expect(")")
	return names, types
}

// check panics with err, preserving its marks, if err is non-nil.
func check(p *strparse.Parser, err error) {
	if err != nil {
		panic(errors.Wrapf(err, "parsing type at offset %d", p.Offset()))
	}
}
