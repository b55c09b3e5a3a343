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

// encState is one of the binary encoder's states.
type encState int

const (
	stClear encState = iota
	stStruct
	stContainer
	stMapKey
	stMapValue
	stSubtype
)

// encFrame is one entry of the encoder's explicit state stack: a
// struct/subtype frame tracks its own field-id namespace (lastFieldID
// reset to 0 at every subtype boundary); container/map frames need no
// field-id bookkeeping.
type encFrame struct {
	state       encState
	lastFieldID int32
}

// Encoder performs a streaming write of descriptor-driven records into the
// tag-delta varint wire format. It is single-use-per-stream: per-stream
// state (shared-ref table, in-progress set, frame stack) belongs to
// exactly one Encoder and must never be shared across goroutines.
type Encoder struct {
	w          *writer
	registry   *Registry
	shared     *encoderSharedTable
	inProgress *inProgressSet
	frames     []*encFrame
	err        error
}

// NewEncoder returns an Encoder writing to sink. A nil registry binds to
// DefaultRegistry.
func NewEncoder(sink Sink, registry *Registry) *Encoder {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Encoder{
		w:          newWriter(sink),
		registry:   registry,
		shared:     newEncoderSharedTable(),
		inProgress: newInProgressSet(),
	}
}

// Err reports the first error encountered.
func (e *Encoder) Err() error {
	if e.err != nil {
		return e.err
	}
	return e.w.err
}

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// State reports the encoder's current state, stClear when no struct or
// container is open.
func (e *Encoder) State() encState {
	if len(e.frames) == 0 {
		return stClear
	}
	return e.frames[len(e.frames)-1].state
}

func (e *Encoder) top() *encFrame { return e.frames[len(e.frames)-1] }

func (e *Encoder) pushFrame(state encState) *encFrame {
	f := &encFrame{state: state}
	e.frames = append(e.frames, f)
	return f
}

func (e *Encoder) popFrame() {
	e.frames = e.frames[:len(e.frames)-1]
}

// AddExtern registers an externally-known object in this stream's
// shared-ref table: a nil id assigns the next negative extern id; a
// caller-supplied id is honored verbatim and fails on collision.
func (e *Encoder) AddExtern(obj Object, id *int64) (int64, error) {
	return e.shared.addExtern(obj, id)
}

// Encode writes obj's struct body to the stream.
func (e *Encoder) Encode(obj Object) error {
	if obj == nil {
		return newEncodingError("cannot encode a nil object")
	}
	e.encodeObject(obj)
	return e.Err()
}

// encodeObject writes one struct's full body, including every subtype
// level's framing: SUBTYPE headers are emitted root-to-leaf before any
// field, then each level's fields (and its closing END) are emitted
// leaf-to-root.
func (e *Encoder) encodeObject(obj Object) {
	if e.Err() != nil {
		return
	}
	if err := e.inProgress.enter(obj); err != nil {
		e.fail(err)
		return
	}
	defer e.inProgress.leave(obj)

	var chain []*StructDescriptor
	for d := obj.Descriptor(); d != nil; d = d.Base {
		chain = append(chain, d)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	e.pushFrame(stStruct)
	for _, lvl := range chain[1:] {
		e.writeSubtypeHeader(lvl.TypeID)
		e.pushFrame(stSubtype)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		e.writeLevelFields(chain[i], obj)
		e.writeEnd()
	}
}

// writeSubtypeHeader writes the SUBTYPE tag that introduces typeID's own
// field namespace. Unlike a field tag, the high nibble packs the subtype
// id directly, not a delta.
func (e *Encoder) writeSubtypeHeader(typeID int32) {
	if e.Err() != nil {
		return
	}
	if typeID >= 1 && typeID <= 15 {
		e.w.writeByte(packTag(dtSubtype, int(typeID)))
	} else {
		e.w.writeByte(packTag(dtSubtype, 0))
		e.w.writeVarUint(uint64(typeID))
	}
}

// writeEnd closes the current struct/subtype frame with a single END byte.
func (e *Encoder) writeEnd() {
	if len(e.frames) == 0 {
		return
	}
	if e.Err() == nil {
		e.w.writeByte(byte(dtEnd))
	}
	e.popFrame()
}

func (e *Encoder) writeLevelFields(level *StructDescriptor, obj Object) {
	fields := make([]*FieldDescriptor, len(level.Fields))
	copy(fields, level.Fields)
	sortFieldsByID(fields)
	for _, f := range fields {
		if e.Err() != nil {
			return
		}
		if !f.Has(obj) {
			continue
		}
		e.writeField(f, f.Get(obj))
	}
}

func sortFieldsByID(fields []*FieldDescriptor) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j].ID < fields[j-1].ID; j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
}

// emitFieldTag computes delta against the enclosing frame's lastFieldID
// and writes the tag byte, enforcing strictly increasing field ids within
// a level.
func (e *Encoder) emitFieldTag(id int32, dt dataType) {
	if e.Err() != nil {
		return
	}
	fr := e.top()
	delta := id - fr.lastFieldID
	if delta <= 0 {
		e.fail(newEncodingError("field id %d does not strictly increase after %d", id, fr.lastFieldID))
		return
	}
	if delta <= 15 {
		e.w.writeByte(packTag(dt, int(delta)))
	} else {
		e.w.writeByte(packTag(dt, 0))
		e.w.writeVarUint(uint64(id))
	}
	fr.lastFieldID = id
}

func (e *Encoder) writeLenPrefixed(b []byte) {
	e.w.writeVarUint(uint64(len(b)))
	e.w.writeBytes(b)
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// writeField writes one declared field: tag byte (with the ZERO/ONE
// collapse for Bool/Integer/Enum) followed by its payload.
func (e *Encoder) writeField(f *FieldDescriptor, value interface{}) {
	if e.Err() != nil {
		return
	}
	base, flags := Unwrap(f.Type)
	switch base.Kind() {
	case KindBool:
		if v, _ := value.(bool); v {
			e.emitFieldTag(f.ID, dtOne)
		} else {
			e.emitFieldTag(f.ID, dtZero)
		}
	case KindInteger:
		iv := toInt64(value)
		switch {
		case iv == 0:
			e.emitFieldTag(f.ID, dtZero)
		case iv == 1:
			e.emitFieldTag(f.ID, dtOne)
		case f.Options.Fixed:
			switch base.(*IntegerType).Bits {
			case 16:
				e.emitFieldTag(f.ID, dtFixed16)
				e.w.writeFixed16(uint16(iv))
			case 32:
				e.emitFieldTag(f.ID, dtFixed32)
				e.w.writeFixed32(uint32(iv))
			default:
				e.emitFieldTag(f.ID, dtFixed64)
				e.w.writeFixed64(uint64(iv))
			}
		default:
			e.emitFieldTag(f.ID, dtVarint)
			e.w.writeVarInt(iv)
		}
	case KindFloat:
		fv, _ := value.(float32)
		e.emitFieldTag(f.ID, dtFloat)
		e.w.writeFloat32(fv)
	case KindDouble:
		dv, _ := value.(float64)
		e.emitFieldTag(f.ID, dtDouble)
		e.w.writeFloat64(dv)
	case KindString:
		sv, _ := value.(string)
		e.emitFieldTag(f.ID, dtBytes)
		e.writeLenPrefixed([]byte(sv))
	case KindBytes:
		bv, _ := value.([]byte)
		e.emitFieldTag(f.ID, dtBytes)
		e.writeLenPrefixed(bv)
	case KindEnum:
		iv := toInt64(value)
		switch iv {
		case 0:
			e.emitFieldTag(f.ID, dtZero)
		case 1:
			e.emitFieldTag(f.ID, dtOne)
		default:
			e.emitFieldTag(f.ID, dtVarint)
			e.w.writeVarInt(iv)
		}
	case KindStruct:
		obj, _ := value.(Object)
		if obj == nil {
			e.emitFieldTag(f.ID, dtZero)
			return
		}
		if flags.Shared {
			if id, seen := e.shared.lookup(obj); seen {
				e.emitFieldTag(f.ID, dtVarint)
				e.w.writeVarInt(id)
				return
			}
			e.shared.register(obj)
			e.emitFieldTag(f.ID, dtSStruct)
			e.encodeObject(obj)
			return
		}
		e.emitFieldTag(f.ID, dtStruct)
		e.encodeObject(obj)
	case KindList, KindSet:
		e.emitFieldTag(f.ID, dtList)
		e.writeCollection(base, value)
	case KindMap:
		e.emitFieldTag(f.ID, dtMap)
		e.writeMap(base.(*MapType), value)
	}
}

func elementDataType(t Type) dataType {
	switch t.Kind() {
	case KindFloat:
		return dtFloat
	case KindDouble:
		return dtDouble
	case KindString, KindBytes:
		return dtBytes
	case KindStruct:
		return dtStruct
	case KindList, KindSet:
		return dtList
	case KindMap:
		return dtMap
	default: // Bool, Integer, Enum
		return dtVarint
	}
}

// writeCollection writes a List or Set field's LIST-framed payload:
// element-DataType byte, varint length, elements.
func (e *Encoder) writeCollection(t Type, value interface{}) {
	var elemType Type
	switch ct := t.(type) {
	case *ListType:
		elemType = ct.Element
	case *SetType:
		elemType = ct.Element
	}
	elemBase, elemFlags := Unwrap(elemType)
	e.w.writeByte(byte(elementDataType(elemBase)))

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		e.w.writeVarUint(0)
		return
	}
	e.pushFrame(stContainer)
	defer e.popFrame()
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		e.w.writeVarUint(uint64(n))
		for i := 0; i < n; i++ {
			e.writeContainerValue(elemBase, elemFlags, rv.Index(i).Interface())
		}
	case reflect.Map: // Set represented as map[T]struct{}
		n := rv.Len()
		e.w.writeVarUint(uint64(n))
		iter := rv.MapRange()
		for iter.Next() {
			e.writeContainerValue(elemBase, elemFlags, iter.Key().Interface())
		}
	default:
		e.w.writeVarUint(0)
	}
}

// writeMap writes a Map field's MAP-framed payload: packed
// (keyDT<<4)|valueDT byte, varint length, interleaved key/value pairs.
func (e *Encoder) writeMap(t *MapType, value interface{}) {
	keyBase, keyFlags := Unwrap(t.Key)
	valBase, valFlags := Unwrap(t.Value)
	e.w.writeByte(byte(elementDataType(keyBase))<<4 | byte(elementDataType(valBase)))

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		e.w.writeVarUint(0)
		return
	}
	e.w.writeVarUint(uint64(rv.Len()))
	fr := e.pushFrame(stMapKey)
	defer e.popFrame()
	iter := rv.MapRange()
	for iter.Next() {
		fr.state = stMapKey
		e.writeContainerValue(keyBase, keyFlags, iter.Key().Interface())
		fr.state = stMapValue
		e.writeContainerValue(valBase, valFlags, iter.Value().Interface())
	}
}

// writeContainerValue writes one list/set element or map key/value: no tag
// byte of its own (the enclosing header already declared the DataType),
// except for shared struct elements, which use the standalone
// SHARED_REF/SHARED_DEF bytes.
func (e *Encoder) writeContainerValue(t Type, flags ModifiedFlags, value interface{}) {
	if e.Err() != nil {
		return
	}
	switch t.Kind() {
	case KindBool:
		v, _ := value.(bool)
		if v {
			e.w.writeVarUint(1)
		} else {
			e.w.writeVarUint(0)
		}
	case KindInteger, KindEnum:
		e.w.writeVarInt(toInt64(value))
	case KindFloat:
		fv, _ := value.(float32)
		e.w.writeFloat32(fv)
	case KindDouble:
		dv, _ := value.(float64)
		e.w.writeFloat64(dv)
	case KindString:
		sv, _ := value.(string)
		e.writeLenPrefixed([]byte(sv))
	case KindBytes:
		bv, _ := value.([]byte)
		e.writeLenPrefixed(bv)
	case KindStruct:
		obj, _ := value.(Object)
		e.writeContainerStruct(obj, flags.Shared)
	case KindList, KindSet:
		e.writeCollection(t, value)
	case KindMap:
		e.writeMap(t.(*MapType), value)
	}
}

func (e *Encoder) writeContainerStruct(obj Object, shared bool) {
	if shared {
		if id, seen := e.shared.lookup(obj); seen {
			e.w.writeByte(sharedRef)
			e.w.writeVarInt(id)
			return
		}
		e.shared.register(obj)
		e.w.writeByte(sharedDef)
		e.encodeObject(obj)
		return
	}
	e.encodeObject(obj)
}
