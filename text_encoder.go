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

import (
	"reflect"
	"strconv"
	"strings"
)

// maxTextDepth is the default recursion-depth cap spec.md §4.6 describes;
// exceeding it is an EncodingError rather than a stack overflow.
const maxTextDepth = 255

// TextEncoder is the pretty-printer companion to the text decoder's
// grammar: 2-space indentation, single-quoted escaped strings, `<[ … ]>`
// byte literals, and `$id (Name): { … }` subtype framing. Shared objects
// are written literally with a trailing `#id` the first time they are
// encountered and as `%id` thereafter.
type TextEncoder struct {
	sb     strings.Builder
	indent int
	shared *encoderSharedTable
	depth  int
	err    error
}

// NewTextEncoder returns a TextEncoder ready to render one or more
// top-level values.
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{shared: newEncoderSharedTable()}
}

// Err reports the first error encountered (currently only depth-limit
// overruns raise one; nothing else about rendering to a string builder can
// fail).
func (e *TextEncoder) Err() error { return e.err }

// String returns everything rendered so far.
func (e *TextEncoder) String() string { return e.sb.String() }

func (e *TextEncoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *TextEncoder) writeIndent() {
	e.sb.WriteString(strings.Repeat("  ", e.indent))
}

// Encode renders obj as a top-level struct_literal body (the root object
// itself is never prefixed with a shared id or back-reference, matching
// Decoder.Decode's top-level entry point).
func (e *TextEncoder) Encode(obj Object) error {
	if obj == nil {
		return newEncodingError("cannot encode a nil object")
	}
	e.writeStruct(obj, ModifiedFlags{})
	return e.Err()
}

func (e *TextEncoder) enter() bool {
	e.depth++
	if e.depth > maxTextDepth {
		e.fail(newEncodingError("text encoder recursion depth exceeds %d", maxTextDepth))
		return false
	}
	return true
}

func (e *TextEncoder) leave() { e.depth-- }

// writeStruct renders one struct value, handling the shared-reference
// rule: a shared object already seen in this stream renders as `%id`; a
// shared object seen for the first time renders its full body followed by
// `#id`.
func (e *TextEncoder) writeStruct(obj Object, flags ModifiedFlags) {
	if e.err != nil {
		return
	}
	var sharedID int64
	if flags.Shared {
		if id, seen := e.shared.lookup(obj); seen {
			e.sb.WriteString("%")
			e.sb.WriteString(strconv.FormatInt(id, 10))
			return
		}
		// Registered before the body is written, so ids follow the same
		// pre-order in which the text decoder reserves them.
		sharedID = e.shared.register(obj)
	}
	if !e.enter() {
		return
	}
	defer e.leave()

	var chain []*StructDescriptor
	for d := obj.Descriptor(); d != nil; d = d.Base {
		chain = append(chain, d)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	e.sb.WriteString("{")
	e.indent++
	wrote := e.writeLevelBody(chain, 0, obj)
	e.indent--
	if wrote {
		e.sb.WriteString("\n")
		e.writeIndent()
	}
	e.sb.WriteString("}")

	if flags.Shared {
		e.sb.WriteString(" #")
		e.sb.WriteString(strconv.FormatInt(sharedID, 10))
	}
}

// writeLevelBody renders chain[idx]'s own fields, then — if there is a
// deeper level — a nested `$id (Name): { … }` subtype block. It returns
// whether anything was written, so the caller knows whether a closing
// brace needs its own line.
func (e *TextEncoder) writeLevelBody(chain []*StructDescriptor, idx int, obj Object) bool {
	level := chain[idx]
	fields := make([]*FieldDescriptor, len(level.Fields))
	copy(fields, level.Fields)
	sortFieldsByID(fields)

	wrote := false
	for _, f := range fields {
		if e.err != nil {
			return wrote
		}
		if !f.Has(obj) {
			continue
		}
		e.sb.WriteString("\n")
		e.writeIndent()
		e.sb.WriteString(f.Name)
		e.sb.WriteString(": ")
		e.writeFieldValue(f.Type, f.Get(obj))
		wrote = true
	}

	if idx+1 < len(chain) {
		next := chain[idx+1]
		e.sb.WriteString("\n")
		e.writeIndent()
		e.sb.WriteString("$")
		e.sb.WriteString(strconv.FormatInt(int64(next.TypeID), 10))
		e.sb.WriteString(" (")
		e.sb.WriteString(simpleName(next.FullName))
		e.sb.WriteString("): {")
		e.indent++
		innerWrote := e.writeLevelBody(chain, idx+1, obj)
		e.indent--
		if innerWrote {
			e.sb.WriteString("\n")
			e.writeIndent()
		}
		e.sb.WriteString("}")
		wrote = true
	}
	return wrote
}

// writeFieldValue renders one field's value per the `value` grammar,
// unwrapping Modified to find the real Kind and shared/nullable flags.
func (e *TextEncoder) writeFieldValue(t Type, value interface{}) {
	if e.err != nil {
		return
	}
	base, flags := Unwrap(t)
	switch base.Kind() {
	case KindBool:
		if v, _ := value.(bool); v {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
	case KindInteger:
		e.sb.WriteString(strconv.FormatInt(toInt64(value), 10))
	case KindEnum:
		e.sb.WriteString(strconv.FormatInt(toInt64(value), 10))
	case KindFloat:
		fv, _ := value.(float32)
		e.sb.WriteString(strconv.FormatFloat(float64(fv), 'g', -1, 32))
	case KindDouble:
		dv, _ := value.(float64)
		e.sb.WriteString(strconv.FormatFloat(dv, 'g', -1, 64))
	case KindString:
		sv, _ := value.(string)
		e.writeStringLiteral(sv)
	case KindBytes:
		bv, _ := value.([]byte)
		e.writeBytesLiteral(bv)
	case KindStruct:
		obj, _ := value.(Object)
		if obj == nil {
			e.sb.WriteString("null")
			return
		}
		e.writeStruct(obj, flags)
	case KindList, KindSet:
		e.writeCollection(base, flags, value)
	case KindMap:
		e.writeMap(base.(*MapType), value)
	default:
		e.fail(newEncodingError("text encoder: unsupported field kind %s", base.Kind()))
	}
}

// simpleName strips a FullName down to the bare identifier the grammar's
// '(' Name ')' expects: the lexer's identifier rule has no '.', so a
// dotted FullName like "example.S2" cannot appear there verbatim.
func simpleName(fullName string) string {
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

func (e *TextEncoder) writeStringLiteral(s string) {
	e.sb.WriteByte('\'')
	e.sb.WriteString(escapeString(s))
	e.sb.WriteByte('\'')
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case 0:
			sb.WriteString(`\0`)
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (e *TextEncoder) writeBytesLiteral(b []byte) {
	e.sb.WriteString("<[")
	for i, by := range b {
		if i > 0 {
			e.sb.WriteString(", ")
		}
		e.sb.WriteString(strconv.Itoa(int(by)))
	}
	e.sb.WriteString("]>")
}

// writeCollection renders a List or Set field as `[ v1 v2 … ]`.
func (e *TextEncoder) writeCollection(t Type, flags ModifiedFlags, value interface{}) {
	var elemType Type
	switch ct := t.(type) {
	case *ListType:
		elemType = ct.Element
	case *SetType:
		elemType = ct.Element
	}
	rv := reflect.ValueOf(value)
	e.sb.WriteString("[")
	if rv.IsValid() {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				if i > 0 {
					e.sb.WriteString(" ")
				}
				e.writeFieldValue(elemType, rv.Index(i).Interface())
			}
		case reflect.Map:
			iter := rv.MapRange()
			first := true
			for iter.Next() {
				if !first {
					e.sb.WriteString(" ")
				}
				first = false
				e.writeFieldValue(elemType, iter.Key().Interface())
			}
		}
	}
	e.sb.WriteString("]")
}

// writeMap renders a Map field as `{ k1: v1 k2: v2 … }`.
func (e *TextEncoder) writeMap(t *MapType, value interface{}) {
	rv := reflect.ValueOf(value)
	e.sb.WriteString("{")
	if rv.IsValid() && rv.Kind() == reflect.Map {
		iter := rv.MapRange()
		first := true
		for iter.Next() {
			if !first {
				e.sb.WriteString(" ")
			}
			first = false
			e.writeFieldValue(t.Key, iter.Key().Interface())
			e.sb.WriteString(": ")
			e.writeFieldValue(t.Value, iter.Value().Interface())
		}
	}
	e.sb.WriteString("}")
}
