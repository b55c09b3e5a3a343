// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package coda

import "reflect"

// TextDecoder parses the canonical text form (spec.md §4.5) into
// descriptor-driven records. Unlike the binary Decoder it is not
// incremental: the whole document is lexed up front into a token slice,
// which lets the parser look ahead across an entire struct body (to
// resolve which subtype a nested `$id(Name): { … }` block names) without
// re-lexing from a byte offset.
type TextDecoder struct {
	toks     []token
	pos      int
	path     string
	registry *Registry
	shared   *decoderSharedTable
	err      error
}

// NewTextDecoder lexes src in full and returns a TextDecoder ready to read
// one or more top-level values from it. A nil registry binds to
// DefaultRegistry. path is used only for diagnostics.
func NewTextDecoder(src []byte, path string, registry *Registry) (*TextDecoder, error) {
	if registry == nil {
		registry = DefaultRegistry
	}
	toks, err := lexAll(src, path)
	if err != nil {
		return nil, err
	}
	return &TextDecoder{
		toks:     toks,
		path:     path,
		registry: registry,
		shared:   newDecoderSharedTable(),
	}, nil
}

// lexAll drains lx until EOF (inclusive), returning every token produced.
func lexAll(src []byte, path string) ([]token, error) {
	lx := newLexer(src, path)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

// AddExtern registers an externally-known object under id, so a `%id`
// reference resolves to obj instead of failing.
func (d *TextDecoder) AddExtern(obj Object, id int64) {
	d.shared.addExtern(obj, id)
}

// Decode reads one top-level struct literal, materialized against root,
// and then requires end of input. The top-level body must be enclosed in
// '{' … '}' (as TextEncoder.Encode writes it); a bare struct_body without
// the braces is not accepted.
func (d *TextDecoder) Decode(root *StructDescriptor) (Object, error) {
	obj, err := d.readStructLiteral(root, ModifiedFlags{})
	if err != nil {
		return nil, err
	}
	if _, err := d.expect(tokEOF); err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *TextDecoder) peek() token { return d.toks[d.pos] }

func (d *TextDecoder) advance() token {
	t := d.toks[d.pos]
	if t.kind != tokEOF {
		d.pos++
	}
	return t
}

func (d *TextDecoder) expect(kind tokenKind) (token, error) {
	t := d.peek()
	if t.kind != kind {
		return token{}, newParsingError(d.path, t.line, t.column,
			"expected %s, found %s", tokenKindName(kind), tokenKindName(t.kind))
	}
	return d.advance(), nil
}

func structDescriptorOf(t Type) *StructDescriptor {
	switch st := t.(type) {
	case *StructType:
		return st.Descriptor
	case *StructDescriptor:
		return st
	default:
		return nil
	}
}

// readValue implements the grammar's `value` production, type-directed by
// expected: it unwraps Modified into a base type plus flag set before
// dispatching on the current token.
func (d *TextDecoder) readValue(expected Type) (interface{}, error) {
	base, flags := Unwrap(expected)
	cur := d.peek()

	if cur.kind == tokNull {
		if !flags.Nullable {
			return nil, newParsingError(d.path, cur.line, cur.column,
				"null is not valid here (field is not nullable)")
		}
		d.advance()
		if base.Kind() == KindStruct {
			return Object(nil), nil
		}
		return reflect.Zero(base.GoType()).Interface(), nil
	}
	if cur.kind == tokObjRef {
		if !flags.Shared {
			return nil, newParsingError(d.path, cur.line, cur.column,
				"'%%%d' is not valid here (field is not shared)", cur.ival)
		}
		d.advance()
		obj, ok := d.shared.lookup(cur.ival)
		if !ok {
			return nil, newParsingError(d.path, cur.line, cur.column,
				"unresolved shared reference %%%d", cur.ival)
		}
		return obj, nil
	}

	switch base.Kind() {
	case KindBool:
		switch cur.kind {
		case tokTrue:
			d.advance()
			return true, nil
		case tokFalse:
			d.advance()
			return false, nil
		default:
			return nil, d.typeMismatch(cur, "Bool")
		}
	case KindInteger:
		if cur.kind != tokInt {
			return nil, d.typeMismatch(cur, "Integer")
		}
		d.advance()
		return fromInt64(base.(*IntegerType).Bits, cur.ival), nil
	case KindEnum:
		if cur.kind != tokInt {
			return nil, d.typeMismatch(cur, "Enum")
		}
		d.advance()
		return int32(cur.ival), nil
	case KindFloat:
		switch cur.kind {
		case tokInt:
			d.advance()
			return float32(cur.ival), nil
		case tokFloat:
			d.advance()
			return float32(cur.fval), nil
		default:
			return nil, d.typeMismatch(cur, "Float")
		}
	case KindDouble:
		switch cur.kind {
		case tokInt:
			d.advance()
			return float64(cur.ival), nil
		case tokFloat:
			d.advance()
			return cur.fval, nil
		default:
			return nil, d.typeMismatch(cur, "Double")
		}
	case KindString:
		if cur.kind != tokString {
			return nil, d.typeMismatch(cur, "String")
		}
		d.advance()
		return cur.sval, nil
	case KindBytes:
		if cur.kind != tokLBinary {
			return nil, d.typeMismatch(cur, "Bytes")
		}
		return d.readBytesLiteral()
	case KindStruct:
		if cur.kind != tokLBrace {
			return nil, d.typeMismatch(cur, "Struct")
		}
		level := structDescriptorOf(base)
		return d.readStructLiteral(level, flags)
	case KindList:
		if cur.kind != tokLBracket {
			return nil, d.typeMismatch(cur, "List")
		}
		return d.readList(base.(*ListType))
	case KindSet:
		if cur.kind != tokLBracket {
			return nil, d.typeMismatch(cur, "Set")
		}
		return d.readSet(base.(*SetType))
	case KindMap:
		if cur.kind != tokLBrace {
			return nil, d.typeMismatch(cur, "Map")
		}
		return d.readMap(base.(*MapType))
	default:
		return nil, newParsingError(d.path, cur.line, cur.column, "unsupported field kind %s", base.Kind())
	}
}

func (d *TextDecoder) typeMismatch(cur token, expectedKind string) error {
	return newParsingError(d.path, cur.line, cur.column,
		"expected a %s value, found %s", expectedKind, tokenKindName(cur.kind))
}

// readStructLiteral reads one `'{' struct_body '}'`. level is the
// statically-expected descriptor; the dynamic (possibly more-derived) type
// is resolved by scanLeafDescriptor before the object is materialized, so
// the factory used is always the object's true leaf type.
func (d *TextDecoder) readStructLiteral(level *StructDescriptor, flags ModifiedFlags) (Object, error) {
	if _, err := d.expect(tokLBrace); err != nil {
		return nil, err
	}
	if d.peek().kind == tokRBrace {
		d.advance()
		obj := level.Factory()
		if flags.Shared {
			d.shared.reserve(obj)
			if err := d.expectSharedDef(); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}

	leaf, err := scanLeafDescriptor(d.toks, d.pos, level, d.registry, d.path)
	if err != nil {
		return nil, err
	}
	obj := leaf.Factory()
	if flags.Shared {
		// Reserved before the body is read, which is what lets a shared
		// object's own fields reference it back (spec.md §4.5, §9).
		d.shared.reserve(obj)
	}
	if err := d.readStructEntries(level, obj); err != nil {
		return nil, err
	}
	if flags.Shared {
		if err := d.expectSharedDef(); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// expectSharedDef consumes the '#<id>' marker the text encoder appends
// right after a shared object's first-occurrence body (spec.md §4.6). The
// id itself is positional bookkeeping only — shared.reserve already
// assigned the id in the same encounter order the encoder used — so it is
// consumed but not cross-checked, the same way a subtype block's
// parenthesized name is read but not verified against the resolved subtype.
func (d *TextDecoder) expectSharedDef() error {
	_, err := d.expect(tokSharedDef)
	return err
}

// readStructEntries reads the (field | subtype_block)* body at level into
// obj, stopping at the matching '}'. A subtype_block recurses into the
// named subtype's own field namespace against the same obj.
func (d *TextDecoder) readStructEntries(level *StructDescriptor, obj Object) error {
	for {
		cur := d.peek()
		switch cur.kind {
		case tokRBrace:
			d.advance()
			return nil
		case tokID:
			d.advance()
			if _, err := d.expect(tokColon); err != nil {
				return err
			}
			f, ok := level.FieldByName(cur.text)
			if !ok {
				return newParsingError(d.path, cur.line, cur.column,
					"unknown field %q on %s", cur.text, level.FullName)
			}
			val, err := d.readValue(f.Type)
			if err != nil {
				return err
			}
			f.Set(obj, val)
			f.markPresent(obj)
		case tokTypeRef:
			d.advance()
			if _, err := d.expect(tokLParen); err != nil {
				return err
			}
			if _, err := d.expect(tokID); err != nil {
				return err
			}
			if _, err := d.expect(tokRParen); err != nil {
				return err
			}
			if _, err := d.expect(tokColon); err != nil {
				return err
			}
			if _, err := d.expect(tokLBrace); err != nil {
				return err
			}
			sub, ok := d.registry.getSubtype(level.Root(), int32(cur.ival))
			if !ok {
				return newParsingError(d.path, cur.line, cur.column,
					"unknown subtype id %d for %s", cur.ival, level.Root().FullName)
			}
			if err := d.readStructEntries(sub, obj); err != nil {
				return err
			}
		default:
			return newParsingError(d.path, cur.line, cur.column,
				"expected a field name or subtype header, found %s", tokenKindName(cur.kind))
		}
	}
}

// readList and readSet differ only in the Go container they build and the
// insertion call, matching List.append vs Set.insert (spec.md §4.2).
func (d *TextDecoder) readList(t *ListType) (interface{}, error) {
	d.advance() // '['
	out := reflect.MakeSlice(reflect.SliceOf(t.Element.GoType()), 0, 0)
	for d.peek().kind != tokRBracket {
		v, err := d.readValue(t.Element)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(v))
		if d.peek().kind == tokComma {
			d.advance()
		}
	}
	d.advance() // ']'
	return out.Interface(), nil
}

func (d *TextDecoder) readSet(t *SetType) (interface{}, error) {
	d.advance() // '['
	out := reflect.MakeMap(reflect.MapOf(t.Element.GoType(), reflect.TypeOf(struct{}{})))
	for d.peek().kind != tokRBracket {
		v, err := d.readValue(t.Element)
		if err != nil {
			return nil, err
		}
		out.SetMapIndex(reflect.ValueOf(v), reflect.ValueOf(struct{}{}))
		if d.peek().kind == tokComma {
			d.advance()
		}
	}
	d.advance() // ']'
	return out.Interface(), nil
}

// readMap reads a `map_literal`. The expected type already told the caller
// this is a Map (the struct-vs-map token-based disambiguation in spec.md
// §4.5 exists for a reader without that context; readValue always has it).
func (d *TextDecoder) readMap(t *MapType) (interface{}, error) {
	d.advance() // '{'
	out := reflect.MakeMap(reflect.MapOf(t.Key.GoType(), t.Value.GoType()))
	for d.peek().kind != tokRBrace {
		k, err := d.readValue(t.Key)
		if err != nil {
			return nil, err
		}
		if _, err := d.expect(tokColon); err != nil {
			return nil, err
		}
		v, err := d.readValue(t.Value)
		if err != nil {
			return nil, err
		}
		out.SetMapIndex(reflect.ValueOf(k), reflect.ValueOf(v))
		if d.peek().kind == tokComma {
			d.advance()
		}
	}
	d.advance() // '}'
	return out.Interface(), nil
}

func (d *TextDecoder) readBytesLiteral() ([]byte, error) {
	d.advance() // '<['
	var buf []byte
	for d.peek().kind != tokRBinary {
		t, err := d.expect(tokInt)
		if err != nil {
			return nil, err
		}
		buf = append(buf, byte(t.ival))
		if d.peek().kind == tokComma {
			d.advance()
		}
	}
	d.advance() // ']>'
	return buf, nil
}

// scanLeafDescriptor determines the dynamic (possibly more-derived)
// descriptor for a struct_literal whose body starts at toks[bodyStart] (the
// token right after its '{'), without allocating an Object or consuming
// parser state: it looks for a subtype_block among the level's own
// (field | subtype_block) entries and, if one is found, resolves and
// recurses into the named subtype's own body for a potentially deeper
// match. This lets readStructLiteral pick the correct Factory (and, for a
// shared field, reserve the correct object) before the real field-writing
// pass runs.
func scanLeafDescriptor(toks []token, bodyStart int, level *StructDescriptor, registry *Registry, path string) (*StructDescriptor, error) {
	i := bodyStart
	for {
		if i >= len(toks) {
			return nil, newParsingError(path, 0, 0, "unexpected end of input scanning struct body")
		}
		t := toks[i]
		switch t.kind {
		case tokRBrace:
			return level, nil
		case tokID:
			i++
			if i >= len(toks) || toks[i].kind != tokColon {
				return nil, newParsingError(path, t.line, t.column, "expected ':' after field name")
			}
			i++
			var err error
			i, err = skipValue(toks, i, path)
			if err != nil {
				return nil, err
			}
		case tokTypeRef:
			i++
			if i >= len(toks) || toks[i].kind != tokLParen {
				return nil, newParsingError(path, t.line, t.column, "expected '(' after subtype id")
			}
			i++
			if i >= len(toks) || toks[i].kind != tokID {
				return nil, newParsingError(path, t.line, t.column, "expected subtype name")
			}
			i++
			if i >= len(toks) || toks[i].kind != tokRParen {
				return nil, newParsingError(path, t.line, t.column, "expected ')' after subtype name")
			}
			i++
			if i >= len(toks) || toks[i].kind != tokColon {
				return nil, newParsingError(path, t.line, t.column, "expected ':' after subtype header")
			}
			i++
			if i >= len(toks) || toks[i].kind != tokLBrace {
				return nil, newParsingError(path, t.line, t.column, "expected '{' to open subtype body")
			}
			sub, ok := registry.getSubtype(level.Root(), int32(t.ival))
			if !ok {
				return nil, newParsingError(path, t.line, t.column, "unknown subtype id %d for %s", t.ival, level.Root().FullName)
			}
			return scanLeafDescriptor(toks, i+1, sub, registry, path)
		default:
			return nil, newParsingError(path, t.line, t.column, "expected field name or subtype header, found %s", tokenKindName(t.kind))
		}
	}
}

// skipValue type-agnostically skips one `value` production starting at
// toks[i], returning the index just past it. It needs no field Type
// because every value production is self-delimiting by its leading token
// and, for the bracketed forms, by balanced delimiters.
func skipValue(toks []token, i int, path string) (int, error) {
	if i >= len(toks) {
		return 0, newParsingError(path, 0, 0, "unexpected end of input skipping value")
	}
	switch toks[i].kind {
	case tokLBrace:
		// A shared struct's first occurrence is followed by its '#id'
		// marker, which belongs to the same value.
		j, err := skipBalanced(toks, i, tokLBrace, tokRBrace, path)
		if err == nil && j < len(toks) && toks[j].kind == tokSharedDef {
			j++
		}
		return j, err
	case tokLBracket:
		return skipBalanced(toks, i, tokLBracket, tokRBracket, path)
	case tokLBinary:
		return skipBalanced(toks, i, tokLBinary, tokRBinary, path)
	case tokInt, tokFloat, tokString, tokObjRef, tokTrue, tokFalse, tokNull:
		return i + 1, nil
	default:
		t := toks[i]
		return 0, newParsingError(path, t.line, t.column, "unexpected token %s in value", tokenKindName(t.kind))
	}
}

func skipBalanced(toks []token, i int, open, closeTok tokenKind, path string) (int, error) {
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i].kind {
		case open:
			depth++
		case closeTok:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, newParsingError(path, 0, 0, "unbalanced delimiter")
}
