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

// decFrame mirrors encFrame on the read side: the current struct/subtype
// level's field-id cursor, and the descriptor level whose Fields are being
// populated.
type decFrame struct {
	level       *StructDescriptor
	lastFieldID int32
}

// Decoder reads the tag-delta varint wire format written by Encoder back
// into descriptor-driven records.
type Decoder struct {
	r        *reader
	registry *Registry
	shared   *decoderSharedTable
	frames   []*decFrame
	err      error
}

// NewDecoder returns a Decoder reading from src. A nil registry binds to
// DefaultRegistry.
func NewDecoder(src Source, registry *Registry) *Decoder {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Decoder{
		r:        newReader(src),
		registry: registry,
		shared:   newDecoderSharedTable(),
	}
}

func (d *Decoder) Err() error {
	if d.err != nil {
		return d.err
	}
	return d.r.err
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// AddExtern registers an externally-known object under id, so that a
// SHARED/VARINT back-reference to id resolves to obj instead of failing.
func (d *Decoder) AddExtern(obj Object, id int64) {
	d.shared.addExtern(obj, id)
}

// Decode reads one struct body rooted at root's descriptor and returns the
// materialized object (possibly a registered subtype of root).
func (d *Decoder) Decode(root *StructDescriptor) (Object, error) {
	obj := d.decodeStruct(root, false)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *Decoder) top() *decFrame { return d.frames[len(d.frames)-1] }

// decodeStruct reads a struct body. It first drains the leading run of
// SUBTYPE tags (the encoder emits every subtype header before any field,
// root-to-leaf) to resolve the object's dynamic type and materialize it
// once via the most-derived Factory, then reads each level's fields —
// leaf level first, root last — each terminated by its own END, the
// mirror image of Encoder.encodeObject's emission order.
//
// reserve mirrors the encoder only registering a shared id at the
// SSTRUCT/SHARED_DEF call site, never for a plain (non-shared) struct:
// passing true reserves obj's id before its fields are read, so a
// self-referencing shared object can resolve a back-reference to itself.
func (d *Decoder) decodeStruct(root *StructDescriptor, reserve bool) Object {
	if d.Err() != nil {
		return nil
	}

	levels := []*StructDescriptor{root}
	var firstFieldByte byte
	for {
		b := d.r.readByte()
		if d.Err() != nil {
			return nil
		}
		dt, high := unpackTag(b)
		if dt != dtSubtype {
			firstFieldByte = b
			break
		}
		typeID := int32(high)
		if high == 0 {
			typeID = int32(d.r.readVarUint())
		}
		sub, ok := d.registry.getSubtype(root, typeID)
		if !ok {
			d.fail(newEncodingError("unknown subtype id %d for %s", typeID, root.FullName))
			return nil
		}
		levels = append(levels, sub)
	}

	dynamic := levels[len(levels)-1]
	obj := dynamic.Factory()
	if reserve {
		d.shared.reserve(obj)
	}

	havePending := true
	pending := firstFieldByte
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		d.frames = append(d.frames, &decFrame{level: level})
		for {
			var b byte
			if havePending {
				b = pending
				havePending = false
			} else {
				b = d.r.readByte()
				if d.Err() != nil {
					d.frames = d.frames[:len(d.frames)-1]
					return obj
				}
			}
			dt, high := unpackTag(b)
			if dt == dtEnd {
				break
			}
			fr := d.top()
			id := fr.lastFieldID + int32(high)
			if high == 0 {
				id = int32(d.r.readVarUint())
			}
			if id <= fr.lastFieldID {
				d.fail(newEncodingError("field id %d does not strictly increase after %d", id, fr.lastFieldID))
				d.frames = d.frames[:len(d.frames)-1]
				return obj
			}
			fr.lastFieldID = id
			f, ok := level.FieldByID(id)
			if !ok {
				d.fail(newEncodingError("unknown field id %d on %s", id, level.FullName))
				d.frames = d.frames[:len(d.frames)-1]
				return obj
			}
			d.readFieldValue(obj, f, dt)
			if d.Err() != nil {
				d.frames = d.frames[:len(d.frames)-1]
				return obj
			}
		}
		d.frames = d.frames[:len(d.frames)-1]
	}
	return obj
}

func fromInt64(bits int, v int64) interface{} {
	switch bits {
	case 16:
		return int16(v)
	case 32:
		return int32(v)
	default:
		return v
	}
}

func (d *Decoder) readFieldValue(obj Object, f *FieldDescriptor, dt dataType) {
	base, flags := Unwrap(f.Type)
	switch base.Kind() {
	case KindBool:
		f.Set(obj, dt == dtOne)
	case KindInteger:
		bits := base.(*IntegerType).Bits
		switch dt {
		case dtZero:
			f.Set(obj, fromInt64(bits, 0))
		case dtOne:
			f.Set(obj, fromInt64(bits, 1))
		case dtFixed16:
			f.Set(obj, fromInt64(bits, int64(d.r.readFixed16())))
		case dtFixed32:
			f.Set(obj, fromInt64(bits, int64(d.r.readFixed32())))
		case dtFixed64:
			f.Set(obj, fromInt64(bits, int64(d.r.readFixed64())))
		case dtVarint:
			f.Set(obj, fromInt64(bits, d.r.readVarInt()))
		default:
			d.fail(newEncodingError("unexpected data type %d for integer field %s", dt, f.Name))
			return
		}
	case KindFloat:
		f.Set(obj, d.r.readFloat32())
	case KindDouble:
		f.Set(obj, d.r.readFloat64())
	case KindString:
		n := d.r.readVarUint()
		f.Set(obj, string(d.r.readBytes(int(n))))
	case KindBytes:
		n := d.r.readVarUint()
		f.Set(obj, d.r.readBytes(int(n)))
	case KindEnum:
		switch dt {
		case dtZero:
			f.Set(obj, int32(0))
		case dtOne:
			f.Set(obj, int32(1))
		case dtVarint:
			f.Set(obj, int32(d.r.readVarInt()))
		default:
			d.fail(newEncodingError("unexpected data type %d for enum field %s", dt, f.Name))
		}
	case KindStruct:
		root := structTypeRoot(base)
		switch dt {
		case dtZero:
			f.Set(obj, Object(nil))
		case dtVarint:
			id := d.r.readVarInt()
			ref, ok := d.shared.lookup(id)
			if !ok {
				d.fail(newEncodingError("unresolved shared reference %%%d", id))
				return
			}
			f.Set(obj, ref)
		case dtStruct, dtSStruct:
			nested := d.decodeStruct(root, dt == dtSStruct)
			f.Set(obj, nested)
		default:
			d.fail(newEncodingError("unexpected data type %d for struct field %s", dt, f.Name))
		}
	case KindList, KindSet:
		f.Set(obj, d.readCollection(base))
	case KindMap:
		f.Set(obj, d.readMap(base.(*MapType)))
	}
	f.markPresent(obj)
	_ = flags
}

func structTypeRoot(t Type) *StructDescriptor {
	switch st := t.(type) {
	case *StructType:
		return st.Descriptor.Root()
	case *StructDescriptor:
		return st.Root()
	default:
		return nil
	}
}

// readCollection reads a LIST/PLIST payload into a freshly allocated Go
// slice or map (Set), matching the container's declared Element type.
func (d *Decoder) readCollection(t Type) interface{} {
	var elemType Type
	var isSet bool
	switch ct := t.(type) {
	case *ListType:
		elemType = ct.Element
	case *SetType:
		elemType = ct.Element
		isSet = true
	}
	elemDT := dataType(d.r.readByte())
	n := int(d.r.readVarUint())
	elemBase, elemFlags := Unwrap(elemType)

	if isSet {
		out := reflect.MakeMap(reflect.MapOf(elemBase.GoType(), reflect.TypeOf(struct{}{})))
		for i := 0; i < n && d.Err() == nil; i++ {
			v := d.readContainerValue(elemBase, elemFlags, elemDT)
			if d.Err() != nil {
				break
			}
			out.SetMapIndex(reflect.ValueOf(v), reflect.ValueOf(struct{}{}))
		}
		return out.Interface()
	}
	out := reflect.MakeSlice(reflect.SliceOf(elemBase.GoType()), 0, n)
	for i := 0; i < n && d.Err() == nil; i++ {
		v := d.readContainerValue(elemBase, elemFlags, elemDT)
		if d.Err() != nil {
			break
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	return out.Interface()
}

func (d *Decoder) readMap(t *MapType) interface{} {
	header := d.r.readByte()
	keyDT := dataType(header >> 4)
	valDT := dataType(header & 0x0f)
	n := int(d.r.readVarUint())
	keyBase, keyFlags := Unwrap(t.Key)
	valBase, valFlags := Unwrap(t.Value)
	out := reflect.MakeMapWithSize(reflect.MapOf(keyBase.GoType(), valBase.GoType()), n)
	for i := 0; i < n && d.Err() == nil; i++ {
		k := d.readContainerValue(keyBase, keyFlags, keyDT)
		if d.Err() != nil {
			break
		}
		v := d.readContainerValue(valBase, valFlags, valDT)
		if d.Err() != nil {
			break
		}
		out.SetMapIndex(reflect.ValueOf(k), reflect.ValueOf(v))
	}
	return out.Interface()
}

// readContainerValue reads one list/set element or map key/value. elemDT
// was declared once in the enclosing header; struct elements additionally
// consult a leading SHARED_REF/SHARED_DEF byte when the element is shared.
func (d *Decoder) readContainerValue(t Type, flags ModifiedFlags, elemDT dataType) interface{} {
	if d.Err() != nil {
		return reflect.Zero(t.GoType()).Interface()
	}
	switch t.Kind() {
	case KindBool:
		return d.r.readVarUint() != 0
	case KindInteger:
		return fromInt64(t.(*IntegerType).Bits, d.r.readVarInt())
	case KindEnum:
		return int32(d.r.readVarInt())
	case KindFloat:
		return d.r.readFloat32()
	case KindDouble:
		return d.r.readFloat64()
	case KindString:
		n := d.r.readVarUint()
		return string(d.r.readBytes(int(n)))
	case KindBytes:
		n := d.r.readVarUint()
		return d.r.readBytes(int(n))
	case KindStruct:
		root := structTypeRoot(t)
		if flags.Shared {
			marker := d.r.readByte()
			switch marker {
			case sharedRef:
				id := d.r.readVarInt()
				obj, ok := d.shared.lookup(id)
				if !ok {
					d.fail(newEncodingError("unresolved shared reference %%%d", id))
					return nil
				}
				return obj
			case sharedDef:
				return d.decodeStruct(root, true)
			default:
				d.fail(newEncodingError("expected shared-ref/shared-def byte, got 0x%02x", marker))
				return nil
			}
		}
		return d.decodeStruct(root, false)
	case KindList, KindSet:
		return d.readCollection(t)
	case KindMap:
		return d.readMap(t.(*MapType))
	default:
		return nil
	}
}
