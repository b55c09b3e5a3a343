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

// This file is what a generator would emit for a small schema exercising
// every field kind the runtime supports: scalars of every width, a string
// and a byte string, an enum, two maps, a nested/subtype struct pair, and a
// shared-object list. Nothing here is runtime machinery — it is all
// StructDescriptor/FieldDescriptor wiring plus the typed accessors spec.md
// §6.1 calls for.

// fieldClear builds a generic Clear closure from a field's Type and its Set
// closure: every field clears to its Type's Go zero value, so one helper
// covers all of them instead of fourteen hand-written resets.
func fieldClear(t Type, set func(Object, interface{})) func(Object) {
	zero := reflect.Zero(t.GoType()).Interface()
	return func(o Object) { set(o, zero) }
}

// --- S1 -------------------------------------------------------------------

const (
	s1BitScalarBoolean = iota
	s1BitScalarI16
	s1BitScalarI32
	s1BitScalarI64
	s1BitScalarFixedI16
	s1BitScalarFixedI32
	s1BitScalarFixedI64
	s1BitScalarFloat
	s1BitScalarDouble
	s1BitScalarString
	s1BitScalarBytes
	s1BitScalarEnum
	s1BitMapIntString
	s1BitMapStringInt
)

// S1 is the root of the example hierarchy: one field of every scalar kind,
// an enum, and two maps.
type S1 struct {
	Base
	presence PresenceBits

	scalarBoolean  bool
	scalarI16      int16
	scalarI32      int32
	scalarI64      int64
	scalarFixedI16 int16
	scalarFixedI32 int32
	scalarFixedI64 int64
	scalarFloat    float32
	scalarDouble   float64
	scalarString   string
	scalarBytes    []byte
	scalarEnum     int32
	mapIntString   map[int32]string
	mapStringInt   map[string]int32
}

// s1Accessor is implemented by S1 itself (identity) and by every subtype so
// a FieldDescriptor closure declared once at the S1 level can reach its
// storage regardless of the object's dynamic leaf type (spec.md §9: no
// vtable, ordinary typed members plus an explicit accessor per level).
type s1Accessor interface {
	s1() *S1
}

func (s *S1) s1() *S1 { return s }

// NewS1 returns a fresh, mutable, zero-valued S1.
func NewS1() *S1 { return &S1{Base: NewBase(S1Descriptor)} }

func (s *S1) HasScalarBoolean() bool { return s.presence.Get(s1BitScalarBoolean) }
func (s *S1) ScalarBoolean() bool    { return s.scalarBoolean }
func (s *S1) SetScalarBoolean(v bool) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarBoolean = v
	s.presence.Set(s1BitScalarBoolean, true)
	return nil
}
func (s *S1) ClearScalarBoolean() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarBoolean = false
	s.presence.Set(s1BitScalarBoolean, false)
	return nil
}

func (s *S1) HasScalarI16() bool { return s.presence.Get(s1BitScalarI16) }
func (s *S1) ScalarI16() int16   { return s.scalarI16 }
func (s *S1) SetScalarI16(v int16) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI16 = v
	s.presence.Set(s1BitScalarI16, true)
	return nil
}
func (s *S1) ClearScalarI16() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI16 = 0
	s.presence.Set(s1BitScalarI16, false)
	return nil
}

func (s *S1) HasScalarI32() bool { return s.presence.Get(s1BitScalarI32) }
func (s *S1) ScalarI32() int32   { return s.scalarI32 }
func (s *S1) SetScalarI32(v int32) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI32 = v
	s.presence.Set(s1BitScalarI32, true)
	return nil
}
func (s *S1) ClearScalarI32() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI32 = 0
	s.presence.Set(s1BitScalarI32, false)
	return nil
}

func (s *S1) HasScalarI64() bool { return s.presence.Get(s1BitScalarI64) }
func (s *S1) ScalarI64() int64   { return s.scalarI64 }
func (s *S1) SetScalarI64(v int64) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI64 = v
	s.presence.Set(s1BitScalarI64, true)
	return nil
}
func (s *S1) ClearScalarI64() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarI64 = 0
	s.presence.Set(s1BitScalarI64, false)
	return nil
}

func (s *S1) HasScalarFixedI16() bool { return s.presence.Get(s1BitScalarFixedI16) }
func (s *S1) ScalarFixedI16() int16   { return s.scalarFixedI16 }
func (s *S1) SetScalarFixedI16(v int16) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI16 = v
	s.presence.Set(s1BitScalarFixedI16, true)
	return nil
}
func (s *S1) ClearScalarFixedI16() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI16 = 0
	s.presence.Set(s1BitScalarFixedI16, false)
	return nil
}

func (s *S1) HasScalarFixedI32() bool { return s.presence.Get(s1BitScalarFixedI32) }
func (s *S1) ScalarFixedI32() int32   { return s.scalarFixedI32 }
func (s *S1) SetScalarFixedI32(v int32) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI32 = v
	s.presence.Set(s1BitScalarFixedI32, true)
	return nil
}
func (s *S1) ClearScalarFixedI32() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI32 = 0
	s.presence.Set(s1BitScalarFixedI32, false)
	return nil
}

func (s *S1) HasScalarFixedI64() bool { return s.presence.Get(s1BitScalarFixedI64) }
func (s *S1) ScalarFixedI64() int64   { return s.scalarFixedI64 }
func (s *S1) SetScalarFixedI64(v int64) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI64 = v
	s.presence.Set(s1BitScalarFixedI64, true)
	return nil
}
func (s *S1) ClearScalarFixedI64() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFixedI64 = 0
	s.presence.Set(s1BitScalarFixedI64, false)
	return nil
}

func (s *S1) HasScalarFloat() bool { return s.presence.Get(s1BitScalarFloat) }
func (s *S1) ScalarFloat() float32 { return s.scalarFloat }
func (s *S1) SetScalarFloat(v float32) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFloat = v
	s.presence.Set(s1BitScalarFloat, true)
	return nil
}
func (s *S1) ClearScalarFloat() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarFloat = 0
	s.presence.Set(s1BitScalarFloat, false)
	return nil
}

func (s *S1) HasScalarDouble() bool { return s.presence.Get(s1BitScalarDouble) }
func (s *S1) ScalarDouble() float64 { return s.scalarDouble }
func (s *S1) SetScalarDouble(v float64) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarDouble = v
	s.presence.Set(s1BitScalarDouble, true)
	return nil
}
func (s *S1) ClearScalarDouble() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarDouble = 0
	s.presence.Set(s1BitScalarDouble, false)
	return nil
}

func (s *S1) HasScalarString() bool { return s.presence.Get(s1BitScalarString) }
func (s *S1) ScalarString() string  { return s.scalarString }
func (s *S1) SetScalarString(v string) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarString = v
	s.presence.Set(s1BitScalarString, true)
	return nil
}
func (s *S1) ClearScalarString() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarString = ""
	s.presence.Set(s1BitScalarString, false)
	return nil
}

func (s *S1) HasScalarBytes() bool   { return s.presence.Get(s1BitScalarBytes) }
func (s *S1) ScalarBytes() []byte    { return s.scalarBytes }
func (s *S1) MutableScalarBytes() (*[]byte, error) {
	if err := s.CheckMutable(); err != nil {
		return nil, err
	}
	s.presence.Set(s1BitScalarBytes, true)
	return &s.scalarBytes, nil
}
func (s *S1) SetScalarBytes(v []byte) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarBytes = v
	s.presence.Set(s1BitScalarBytes, true)
	return nil
}
func (s *S1) ClearScalarBytes() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarBytes = nil
	s.presence.Set(s1BitScalarBytes, false)
	return nil
}

func (s *S1) HasScalarEnum() bool { return s.presence.Get(s1BitScalarEnum) }
func (s *S1) ScalarEnum() int32   { return s.scalarEnum }
func (s *S1) SetScalarEnum(v int32) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarEnum = v
	s.presence.Set(s1BitScalarEnum, true)
	return nil
}
func (s *S1) ClearScalarEnum() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarEnum = 0
	s.presence.Set(s1BitScalarEnum, false)
	return nil
}

func (s *S1) HasMapIntString() bool            { return s.presence.Get(s1BitMapIntString) }
func (s *S1) MapIntString() map[int32]string   { return s.mapIntString }
func (s *S1) MutableMapIntString() (map[int32]string, error) {
	if err := s.CheckMutable(); err != nil {
		return nil, err
	}
	if s.mapIntString == nil {
		s.mapIntString = make(map[int32]string)
	}
	s.presence.Set(s1BitMapIntString, true)
	return s.mapIntString, nil
}
func (s *S1) SetMapIntString(v map[int32]string) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.mapIntString = v
	s.presence.Set(s1BitMapIntString, true)
	return nil
}
func (s *S1) ClearMapIntString() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.mapIntString = nil
	s.presence.Set(s1BitMapIntString, false)
	return nil
}

func (s *S1) HasMapStringInt() bool          { return s.presence.Get(s1BitMapStringInt) }
func (s *S1) MapStringInt() map[string]int32 { return s.mapStringInt }
func (s *S1) MutableMapStringInt() (map[string]int32, error) {
	if err := s.CheckMutable(); err != nil {
		return nil, err
	}
	if s.mapStringInt == nil {
		s.mapStringInt = make(map[string]int32)
	}
	s.presence.Set(s1BitMapStringInt, true)
	return s.mapStringInt, nil
}
func (s *S1) SetMapStringInt(v map[string]int32) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.mapStringInt = v
	s.presence.Set(s1BitMapStringInt, true)
	return nil
}
func (s *S1) ClearMapStringInt() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.mapStringInt = nil
	s.presence.Set(s1BitMapStringInt, false)
	return nil
}

// Clear resets every field to its zero value and clears all presence bits.
func (s *S1) Clear() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.scalarBoolean, s.scalarI16, s.scalarI32, s.scalarI64 = false, 0, 0, 0
	s.scalarFixedI16, s.scalarFixedI32, s.scalarFixedI64 = 0, 0, 0
	s.scalarFloat, s.scalarDouble = 0, 0
	s.scalarString, s.scalarBytes, s.scalarEnum = "", nil, 0
	s.mapIntString, s.mapStringInt = nil, nil
	s.presence = 0
	return nil
}

func equalMapIntString(a, b map[int32]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func equalMapStringInt(a, b map[string]int32) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Equals compares two S1 instances structurally.
func (s *S1) Equals(other Object) bool {
	if eq, decided := ObjectsEqual(s, other); decided {
		return eq
	}
	o, ok := other.(*S1)
	if !ok {
		return false
	}
	return s.scalarBoolean == o.scalarBoolean &&
		s.scalarI16 == o.scalarI16 &&
		s.scalarI32 == o.scalarI32 &&
		s.scalarI64 == o.scalarI64 &&
		s.scalarFixedI16 == o.scalarFixedI16 &&
		s.scalarFixedI32 == o.scalarFixedI32 &&
		s.scalarFixedI64 == o.scalarFixedI64 &&
		s.scalarFloat == o.scalarFloat &&
		s.scalarDouble == o.scalarDouble &&
		s.scalarString == o.scalarString &&
		string(s.scalarBytes) == string(o.scalarBytes) &&
		s.scalarEnum == o.scalarEnum &&
		equalMapIntString(s.mapIntString, o.mapIntString) &&
		equalMapStringInt(s.mapStringInt, o.mapStringInt)
}

// HashValue combines every field's contribution; map contributions are
// folded order-independently since Go map iteration order is randomized.
func (s *S1) HashValue() uint64 {
	h := NewHasher()
	h.WriteTypeID(s.TypeID())
	h.WriteBool(s.scalarBoolean)
	h.WriteInt(int64(s.scalarI16))
	h.WriteInt(int64(s.scalarI32))
	h.WriteInt(s.scalarI64)
	h.WriteInt(int64(s.scalarFixedI16))
	h.WriteInt(int64(s.scalarFixedI32))
	h.WriteInt(s.scalarFixedI64)
	h.WriteFloat32(s.scalarFloat)
	h.WriteFloat64(s.scalarDouble)
	h.WriteString(s.scalarString)
	h.WriteBytes(s.scalarBytes)
	h.WriteInt(int64(s.scalarEnum))
	var mis, msi uint64
	for k, v := range s.mapIntString {
		e := NewHasher()
		e.WriteInt(int64(k))
		e.WriteString(v)
		mis += e.Sum()
	}
	for k, v := range s.mapStringInt {
		e := NewHasher()
		e.WriteString(k)
		e.WriteInt(int64(v))
		msi += e.Sum()
	}
	h.WriteInt(int64(mis))
	h.WriteInt(int64(msi))
	return h.Sum()
}

// Clone returns a mutable, independent copy.
func (s *S1) Clone() Object {
	c := NewS1()
	c.presence = s.presence
	c.scalarBoolean = s.scalarBoolean
	c.scalarI16 = s.scalarI16
	c.scalarI32 = s.scalarI32
	c.scalarI64 = s.scalarI64
	c.scalarFixedI16 = s.scalarFixedI16
	c.scalarFixedI32 = s.scalarFixedI32
	c.scalarFixedI64 = s.scalarFixedI64
	c.scalarFloat = s.scalarFloat
	c.scalarDouble = s.scalarDouble
	c.scalarString = s.scalarString
	c.scalarEnum = s.scalarEnum
	if s.scalarBytes != nil {
		c.scalarBytes = append([]byte(nil), s.scalarBytes...)
	}
	if s.mapIntString != nil {
		c.mapIntString = make(map[int32]string, len(s.mapIntString))
		for k, v := range s.mapIntString {
			c.mapIntString[k] = v
		}
	}
	if s.mapStringInt != nil {
		c.mapStringInt = make(map[string]int32, len(s.mapStringInt))
		for k, v := range s.mapStringInt {
			c.mapStringInt[k] = v
		}
	}
	return c
}

func s1GetSet(get func(*S1) interface{}, set func(*S1, interface{})) (func(Object) interface{}, func(Object, interface{})) {
	return func(o Object) interface{} { return get(o.(s1Accessor).s1()) },
		func(o Object, v interface{}) { set(o.(s1Accessor).s1(), v) }
}

// S1Descriptor is the StructDescriptor backing S1 and every subtype's
// inherited S1-level fields.
var S1Descriptor = &StructDescriptor{
	FullName: "example.S1",
	TypeID:   0,
	GetPresence: func(obj Object, i int) bool {
		return obj.(s1Accessor).s1().presence.Get(i)
	},
	SetPresence: func(obj Object, i int, v bool) {
		obj.(s1Accessor).s1().presence.Set(i, v)
	},
}

func init() {
	boolT := &BoolType{}
	i16T := &IntegerType{Bits: 16}
	i32T := &IntegerType{Bits: 32}
	i64T := &IntegerType{Bits: 64}
	fixed16T := &IntegerType{Bits: 16}
	fixed32T := &IntegerType{Bits: 32}
	fixed64T := &IntegerType{Bits: 64}
	floatT := &FloatType{}
	doubleT := &DoubleType{}
	stringT := &StringType{}
	bytesT := &BytesType{}
	enumT := &EnumType{Descriptor: E1Descriptor}
	mapIntStringT := &MapType{Key: i32T, Value: stringT}
	mapStringIntT := &MapType{Key: stringT, Value: i32T}

	newField := func(name string, id int32, t Type, bit int, opts FieldOptions,
		get func(*S1) interface{}, set func(*S1, interface{})) *FieldDescriptor {
		g, s := s1GetSet(get, set)
		return &FieldDescriptor{Name: name, ID: id, Type: t, Options: opts, PresenceBit: bit, Get: g, Set: s, Clear: fieldClear(t, s)}
	}

	// Factory is assigned here rather than in the S1Descriptor literal:
	// NewS1 refers to S1Descriptor, so the literal form is an
	// initialization cycle.
	S1Descriptor.Factory = func() Object { return NewS1() }
	S1Descriptor.Fields = []*FieldDescriptor{
		newField("scalarBoolean", 1, boolT, s1BitScalarBoolean, FieldOptions{},
			func(s *S1) interface{} { return s.scalarBoolean },
			func(s *S1, v interface{}) { s.scalarBoolean, _ = v.(bool) }),
		newField("scalarI16", 2, i16T, s1BitScalarI16, FieldOptions{},
			func(s *S1) interface{} { return s.scalarI16 },
			func(s *S1, v interface{}) { s.scalarI16, _ = v.(int16) }),
		newField("scalarI32", 3, i32T, s1BitScalarI32, FieldOptions{},
			func(s *S1) interface{} { return s.scalarI32 },
			func(s *S1, v interface{}) { s.scalarI32, _ = v.(int32) }),
		newField("scalarI64", 4, i64T, s1BitScalarI64, FieldOptions{},
			func(s *S1) interface{} { return s.scalarI64 },
			func(s *S1, v interface{}) { s.scalarI64, _ = v.(int64) }),
		newField("scalarFixedI16", 5, fixed16T, s1BitScalarFixedI16, FieldOptions{Fixed: true},
			func(s *S1) interface{} { return s.scalarFixedI16 },
			func(s *S1, v interface{}) { s.scalarFixedI16, _ = v.(int16) }),
		newField("scalarFixedI32", 6, fixed32T, s1BitScalarFixedI32, FieldOptions{Fixed: true},
			func(s *S1) interface{} { return s.scalarFixedI32 },
			func(s *S1, v interface{}) { s.scalarFixedI32, _ = v.(int32) }),
		newField("scalarFixedI64", 7, fixed64T, s1BitScalarFixedI64, FieldOptions{Fixed: true},
			func(s *S1) interface{} { return s.scalarFixedI64 },
			func(s *S1, v interface{}) { s.scalarFixedI64, _ = v.(int64) }),
		newField("scalarFloat", 8, floatT, s1BitScalarFloat, FieldOptions{},
			func(s *S1) interface{} { return s.scalarFloat },
			func(s *S1, v interface{}) { s.scalarFloat, _ = v.(float32) }),
		newField("scalarDouble", 9, doubleT, s1BitScalarDouble, FieldOptions{},
			func(s *S1) interface{} { return s.scalarDouble },
			func(s *S1, v interface{}) { s.scalarDouble, _ = v.(float64) }),
		newField("scalarString", 10, stringT, s1BitScalarString, FieldOptions{},
			func(s *S1) interface{} { return s.scalarString },
			func(s *S1, v interface{}) { s.scalarString, _ = v.(string) }),
		newField("scalarBytes", 11, bytesT, s1BitScalarBytes, FieldOptions{},
			func(s *S1) interface{} { return s.scalarBytes },
			func(s *S1, v interface{}) { s.scalarBytes, _ = v.([]byte) }),
		newField("scalarEnum", 12, enumT, s1BitScalarEnum, FieldOptions{},
			func(s *S1) interface{} { return s.scalarEnum },
			func(s *S1, v interface{}) { s.scalarEnum, _ = v.(int32) }),
		newField("mapIntString", 13, mapIntStringT, s1BitMapIntString, FieldOptions{},
			func(s *S1) interface{} { return s.mapIntString },
			func(s *S1, v interface{}) { s.mapIntString, _ = v.(map[int32]string) }),
		newField("mapStringInt", 14, mapStringIntT, s1BitMapStringInt, FieldOptions{},
			func(s *S1) interface{} { return s.mapStringInt },
			func(s *S1, v interface{}) { s.mapStringInt, _ = v.(map[string]int32) }),
	}
	S1Descriptor.NestedStructs = []*StructDescriptor{S2Descriptor}
	S1Descriptor.DefaultInstance = func() Object {
		o := NewS1()
		o.Freeze(nil)
		return o
	}()

	s2init()
	s3init()
	integerValueInit()
	listValueInit()

	file := &FileDescriptor{
		Name:    "example.coda",
		Package: "coda",
		Structs: []*StructDescriptor{S1Descriptor, S3Descriptor, IntegerValueDescriptor, ListValueDescriptor},
		Enums:   []*EnumDescriptor{E1Descriptor},
	}
	if err := file.Register(DefaultRegistry); err != nil {
		panic(err)
	}
}

// --- S2 (extends S1) --------------------------------------------------

const (
	s2BitLeft = iota
	s2BitRight
)

// S2 extends S1 with two nested, nullable S1 fields in their own subtype
// field-id namespace.
type S2 struct {
	S1
	s2presence PresenceBits

	left  *S1
	right *S1
}

// NewS2 returns a fresh, mutable, zero-valued S2. Its embedded S1 storage is
// reachable through s1Accessor, so S1-level FieldDescriptor closures work on
// an S2 exactly as they do on a bare S1.
func NewS2() *S2 {
	s := &S2{}
	s.Base = NewBase(S2Descriptor)
	return s
}

func (s *S2) s1() *S1 { return &s.S1 }

type s2Accessor interface {
	s2() *S2
}

func (s *S2) s2() *S2 { return s }

func (s *S2) HasLeft() bool { return s.s2presence.Get(s2BitLeft) }
func (s *S2) Left() *S1     { return s.left }
func (s *S2) SetLeft(v *S1) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.left = v
	s.s2presence.Set(s2BitLeft, true)
	return nil
}
func (s *S2) ClearLeft() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.left = nil
	s.s2presence.Set(s2BitLeft, false)
	return nil
}

func (s *S2) HasRight() bool { return s.s2presence.Get(s2BitRight) }
func (s *S2) Right() *S1     { return s.right }
func (s *S2) SetRight(v *S1) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.right = v
	s.s2presence.Set(s2BitRight, true)
	return nil
}
func (s *S2) ClearRight() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.right = nil
	s.s2presence.Set(s2BitRight, false)
	return nil
}

// Clear resets S2's own fields and the inherited S1 fields.
func (s *S2) Clear() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	if err := s.S1.Clear(); err != nil {
		return err
	}
	s.left, s.right = nil, nil
	s.s2presence = 0
	return nil
}

// Freeze flips the embedded S1/Base mutable flag first, then freezes the
// owned left/right S1 children and finally runs any caller-supplied
// children hook (freeze composition in place of a virtual call pair).
func (s *S2) Freeze(children func()) {
	s.S1.Freeze(func() {
		FreezeObject(asObject(s.left))
		FreezeObject(asObject(s.right))
		if children != nil {
			children()
		}
	})
}

// Equals compares S2's own fields plus the inherited S1 fields.
func (s *S2) Equals(other Object) bool {
	if eq, decided := ObjectsEqual(s, other); decided {
		return eq
	}
	o, ok := other.(*S2)
	if !ok {
		return false
	}
	if !s.S1.Equals(&o.S1) {
		return false
	}
	if (s.left == nil) != (o.left == nil) || (s.left != nil && !s.left.Equals(o.left)) {
		return false
	}
	if (s.right == nil) != (o.right == nil) || (s.right != nil && !s.right.Equals(o.right)) {
		return false
	}
	return true
}

func (s *S2) HashValue() uint64 {
	h := NewHasher()
	h.WriteTypeID(s.TypeID())
	h.writeUint64(s.S1.HashValue())
	h.WriteChild(asObject(s.left))
	h.WriteChild(asObject(s.right))
	return h.Sum()
}

// asObject lifts a possibly-nil *S1 into an Object, returning a true nil
// interface (not a typed nil) when the pointer is nil.
func asObject(s *S1) Object {
	if s == nil {
		return nil
	}
	return s
}

func (s *S2) Clone() Object {
	c := NewS2()
	base := s.S1.Clone().(*S1)
	c.S1 = *base
	c.S1.Base = NewBase(S2Descriptor)
	c.s2presence = s.s2presence
	if s.left != nil {
		c.left = s.left.Clone().(*S1)
	}
	if s.right != nil {
		c.right = s.right.Clone().(*S1)
	}
	return c
}

// S2Descriptor is the StructDescriptor for the S2 subtype, registered under
// typeId 1 within S1's root hierarchy.
var S2Descriptor = &StructDescriptor{
	FullName: "example.S2",
	TypeID:   1,
	Base:     S1Descriptor,
	GetPresence: func(obj Object, i int) bool {
		return obj.(s2Accessor).s2().s2presence.Get(i)
	},
	SetPresence: func(obj Object, i int, v bool) {
		obj.(s2Accessor).s2().s2presence.Set(i, v)
	},
}

func s2GetSet(get func(*S2) interface{}, set func(*S2, interface{})) (func(Object) interface{}, func(Object, interface{})) {
	return func(o Object) interface{} { return get(o.(s2Accessor).s2()) },
		func(o Object, v interface{}) { set(o.(s2Accessor).s2(), v) }
}

func s2init() {
	S2Descriptor.Factory = func() Object { return NewS2() }
	nullableS1 := &ModifiedType{Element: &StructType{Descriptor: S1Descriptor}, Flags: ModifiedFlags{Nullable: true}}

	newField := func(name string, id int32, bit int,
		get func(*S2) interface{}, set func(*S2, interface{})) *FieldDescriptor {
		g, st := s2GetSet(get, set)
		return &FieldDescriptor{Name: name, ID: id, Type: nullableS1, Options: FieldOptions{Nullable: true}, PresenceBit: bit, Get: g, Set: st, Clear: fieldClear(nullableS1, st)}
	}

	S2Descriptor.Fields = []*FieldDescriptor{
		newField("left", 1, s2BitLeft,
			func(s *S2) interface{} {
				if s.left == nil {
					return nil
				}
				return s.left
			},
			func(s *S2, v interface{}) { s.left, _ = v.(*S1) }),
		newField("right", 2, s2BitRight,
			func(s *S2) interface{} {
				if s.right == nil {
					return nil
				}
				return s.right
			},
			func(s *S2, v interface{}) { s.right, _ = v.(*S1) }),
	}
}

// --- S3 (root, shared-object list) ----------------------------------------

const s3BitSList = 0

// S3 is an independent root carrying a list of shared S1 references.
type S3 struct {
	Base
	presence PresenceBits
	sList    []Object
}

func NewS3() *S3 { return &S3{Base: NewBase(S3Descriptor)} }

func (s *S3) HasSList() bool  { return s.presence.Get(s3BitSList) }
func (s *S3) SList() []Object { return s.sList }
func (s *S3) MutableSList() (*[]Object, error) {
	if err := s.CheckMutable(); err != nil {
		return nil, err
	}
	s.presence.Set(s3BitSList, true)
	return &s.sList, nil
}
func (s *S3) SetSList(v []Object) error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.sList = v
	s.presence.Set(s3BitSList, true)
	return nil
}
func (s *S3) ClearSList() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.sList = nil
	s.presence.Set(s3BitSList, false)
	return nil
}

func (s *S3) Clear() error {
	if err := s.CheckMutable(); err != nil {
		return err
	}
	s.sList = nil
	s.presence = 0
	return nil
}

func (s *S3) Freeze(children func()) {
	s.Base.Freeze(func() {
		for _, o := range s.sList {
			FreezeObject(o)
		}
		if children != nil {
			children()
		}
	})
}

func (s *S3) Equals(other Object) bool {
	if eq, decided := ObjectsEqual(s, other); decided {
		return eq
	}
	o, ok := other.(*S3)
	if !ok || len(s.sList) != len(o.sList) {
		return false
	}
	for i, v := range s.sList {
		if (v == nil) != (o.sList[i] == nil) {
			return false
		}
		if v != nil && !v.Equals(o.sList[i]) {
			return false
		}
	}
	return true
}

func (s *S3) HashValue() uint64 {
	h := NewHasher()
	h.WriteTypeID(s.TypeID())
	h.WriteInt(int64(len(s.sList)))
	for _, o := range s.sList {
		h.WriteChild(o)
	}
	return h.Sum()
}

func (s *S3) Clone() Object {
	c := NewS3()
	c.presence = s.presence
	if s.sList != nil {
		c.sList = make([]Object, len(s.sList))
		copy(c.sList, s.sList)
	}
	return c
}

var S3Descriptor = &StructDescriptor{
	FullName: "example.S3",
	TypeID:   0,
	GetPresence: func(obj Object, i int) bool {
		return obj.(*S3).presence.Get(i)
	},
	SetPresence: func(obj Object, i int, v bool) {
		obj.(*S3).presence.Set(i, v)
	},
}

func s3init() {
	S3Descriptor.Factory = func() Object { return NewS3() }
	sharedS1 := &ModifiedType{Element: &StructType{Descriptor: S1Descriptor}, Flags: ModifiedFlags{Shared: true}}
	listT := &ListType{Element: sharedS1}
	get := func(o Object) interface{} { return o.(*S3).sList }
	set := func(o Object, v interface{}) { o.(*S3).sList, _ = v.([]Object) }
	S3Descriptor.Fields = []*FieldDescriptor{
		{Name: "sList", ID: 1, Type: listT, Options: FieldOptions{Shared: true}, PresenceBit: s3BitSList, Get: get, Set: set, Clear: fieldClear(listT, set)},
	}
}

// --- IntegerValue -----------------------------------------------------

const integerValueBitValue = 0

// IntegerValue wraps a single int32, used as ListValue's element type.
type IntegerValue struct {
	Base
	presence PresenceBits
	value    int32
}

func NewIntegerValue() *IntegerValue { return &IntegerValue{Base: NewBase(IntegerValueDescriptor)} }

func (v *IntegerValue) HasValue() bool { return v.presence.Get(integerValueBitValue) }
func (v *IntegerValue) Value() int32   { return v.value }
func (v *IntegerValue) SetValue(n int32) error {
	if err := v.CheckMutable(); err != nil {
		return err
	}
	v.value = n
	v.presence.Set(integerValueBitValue, true)
	return nil
}
func (v *IntegerValue) ClearValue() error {
	if err := v.CheckMutable(); err != nil {
		return err
	}
	v.value = 0
	v.presence.Set(integerValueBitValue, false)
	return nil
}

func (v *IntegerValue) Clear() error {
	if err := v.CheckMutable(); err != nil {
		return err
	}
	v.value = 0
	v.presence = 0
	return nil
}

func (v *IntegerValue) Equals(other Object) bool {
	if eq, decided := ObjectsEqual(v, other); decided {
		return eq
	}
	o, ok := other.(*IntegerValue)
	return ok && v.value == o.value
}

func (v *IntegerValue) HashValue() uint64 {
	h := NewHasher()
	h.WriteTypeID(v.TypeID())
	h.WriteInt(int64(v.value))
	return h.Sum()
}

func (v *IntegerValue) Clone() Object {
	c := NewIntegerValue()
	c.presence = v.presence
	c.value = v.value
	return c
}

var IntegerValueDescriptor = &StructDescriptor{
	FullName: "example.IntegerValue",
	TypeID:   0,
	GetPresence: func(obj Object, i int) bool {
		return obj.(*IntegerValue).presence.Get(i)
	},
	SetPresence: func(obj Object, i int, v bool) {
		obj.(*IntegerValue).presence.Set(i, v)
	},
}

func integerValueInit() {
	IntegerValueDescriptor.Factory = func() Object { return NewIntegerValue() }
	i32T := &IntegerType{Bits: 32}
	get := func(o Object) interface{} { return o.(*IntegerValue).value }
	set := func(o Object, v interface{}) { o.(*IntegerValue).value, _ = v.(int32) }
	IntegerValueDescriptor.Fields = []*FieldDescriptor{
		{Name: "value", ID: 1, Type: i32T, PresenceBit: integerValueBitValue, Get: get, Set: set, Clear: fieldClear(i32T, set)},
	}
}

// --- ListValue --------------------------------------------------------

const listValueBitItems = 0

// ListValue holds an ordered list of IntegerValue records.
type ListValue struct {
	Base
	presence PresenceBits
	items    []Object
}

func NewListValue() *ListValue { return &ListValue{Base: NewBase(ListValueDescriptor)} }

func (l *ListValue) HasItems() bool      { return l.presence.Get(listValueBitItems) }
func (l *ListValue) Items() []Object     { return l.items }
func (l *ListValue) MutableItems() (*[]Object, error) {
	if err := l.CheckMutable(); err != nil {
		return nil, err
	}
	l.presence.Set(listValueBitItems, true)
	return &l.items, nil
}
func (l *ListValue) SetItems(v []Object) error {
	if err := l.CheckMutable(); err != nil {
		return err
	}
	l.items = v
	l.presence.Set(listValueBitItems, true)
	return nil
}
func (l *ListValue) ClearItems() error {
	if err := l.CheckMutable(); err != nil {
		return err
	}
	l.items = nil
	l.presence.Set(listValueBitItems, false)
	return nil
}

func (l *ListValue) Clear() error {
	if err := l.CheckMutable(); err != nil {
		return err
	}
	l.items = nil
	l.presence = 0
	return nil
}

func (l *ListValue) Freeze(children func()) {
	l.Base.Freeze(func() {
		for _, o := range l.items {
			FreezeObject(o)
		}
		if children != nil {
			children()
		}
	})
}

func (l *ListValue) Equals(other Object) bool {
	if eq, decided := ObjectsEqual(l, other); decided {
		return eq
	}
	o, ok := other.(*ListValue)
	if !ok || len(l.items) != len(o.items) {
		return false
	}
	for i, v := range l.items {
		if (v == nil) != (o.items[i] == nil) {
			return false
		}
		if v != nil && !v.Equals(o.items[i]) {
			return false
		}
	}
	return true
}

func (l *ListValue) HashValue() uint64 {
	h := NewHasher()
	h.WriteTypeID(l.TypeID())
	h.WriteInt(int64(len(l.items)))
	for _, o := range l.items {
		h.WriteChild(o)
	}
	return h.Sum()
}

func (l *ListValue) Clone() Object {
	c := NewListValue()
	c.presence = l.presence
	if l.items != nil {
		c.items = make([]Object, len(l.items))
		copy(c.items, l.items)
	}
	return c
}

var ListValueDescriptor = &StructDescriptor{
	FullName: "example.ListValue",
	TypeID:   0,
	GetPresence: func(obj Object, i int) bool {
		return obj.(*ListValue).presence.Get(i)
	},
	SetPresence: func(obj Object, i int, v bool) {
		obj.(*ListValue).presence.Set(i, v)
	},
}

func listValueInit() {
	ListValueDescriptor.Factory = func() Object { return NewListValue() }
	elemT := &StructType{Descriptor: IntegerValueDescriptor}
	listT := &ListType{Element: elemT}
	get := func(o Object) interface{} { return o.(*ListValue).items }
	set := func(o Object, v interface{}) { o.(*ListValue).items, _ = v.([]Object) }
	ListValueDescriptor.Fields = []*FieldDescriptor{
		{Name: "items", ID: 1, Type: listT, PresenceBit: listValueBitItems, Get: get, Set: set, Clear: fieldClear(listT, set)},
	}
}
