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

// TypeKind is the closed tag set every Type belongs to.
type TypeKind uint8

const (
	KindBool TypeKind = iota
	KindInteger
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindList
	KindSet
	KindMap
	KindStruct
	KindEnum
	KindModified
)

func (k TypeKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindModified:
		return "Modified"
	default:
		return "Unknown"
	}
}

// Type is the runtime representation of a schema type: a closed-kind tagged
// union exposing kind-specific accessors through type assertions on the
// concrete implementations below. Every Type can be frozen; once frozen it
// is shared-immutable.
type Type interface {
	Kind() TypeKind
	Mutable() bool
	Freeze()

	// GoType reports the Go representation used to stage a temporary value
	// of this type. POD kinds map to a single scalar type; String/Bytes map
	// to string/[]byte; List/Set/Map map to a slice/map of the element
	// GoType; Struct/Enum map to the descriptor's carrier types.
	GoType() reflect.Type

	// MakeTemp allocates a fresh pointer to a zero value of this type,
	// used by the decoder to stage a key/value/element before insertion
	// into a container. FreeTemp releases it; in Go this is
	// a no-op kept for symmetry with the source API (the runtime has no
	// manual memory to release).
	MakeTemp() interface{}
	FreeTemp(interface{})
}

// isPOD reports whether a Kind fits a fixed-size value holder.
func isPOD(k TypeKind) bool {
	switch k {
	case KindBool, KindInteger, KindFloat, KindDouble, KindStruct, KindEnum:
		return true
	default:
		return false
	}
}

type baseType struct {
	frozen bool
}

func (b *baseType) Mutable() bool { return !b.frozen }
func (b *baseType) Freeze()       { b.frozen = true }

// BoolType is the Bool TypeKind.
type BoolType struct{ baseType }

func (*BoolType) Kind() TypeKind          { return KindBool }
func (*BoolType) GoType() reflect.Type    { return reflect.TypeOf(false) }
func (*BoolType) MakeTemp() interface{}   { return new(bool) }
func (*BoolType) FreeTemp(interface{})    {}

// IntegerType is the Integer TypeKind, parameterized by bit width.
type IntegerType struct {
	baseType
	Bits int // one of 16, 32, 64
}

func (*IntegerType) Kind() TypeKind { return KindInteger }

func (t *IntegerType) GoType() reflect.Type {
	switch t.Bits {
	case 16:
		return reflect.TypeOf(int16(0))
	case 32:
		return reflect.TypeOf(int32(0))
	default:
		return reflect.TypeOf(int64(0))
	}
}

func (t *IntegerType) MakeTemp() interface{} {
	switch t.Bits {
	case 16:
		return new(int16)
	case 32:
		return new(int32)
	default:
		return new(int64)
	}
}

func (*IntegerType) FreeTemp(interface{}) {}

// FloatType is the single-precision Float TypeKind.
type FloatType struct{ baseType }

func (*FloatType) Kind() TypeKind        { return KindFloat }
func (*FloatType) GoType() reflect.Type  { return reflect.TypeOf(float32(0)) }
func (*FloatType) MakeTemp() interface{} { return new(float32) }
func (*FloatType) FreeTemp(interface{})  {}

// DoubleType is the double-precision Double TypeKind.
type DoubleType struct{ baseType }

func (*DoubleType) Kind() TypeKind        { return KindDouble }
func (*DoubleType) GoType() reflect.Type  { return reflect.TypeOf(float64(0)) }
func (*DoubleType) MakeTemp() interface{} { return new(float64) }
func (*DoubleType) FreeTemp(interface{})  {}

// StringType is the String TypeKind.
type StringType struct{ baseType }

func (*StringType) Kind() TypeKind        { return KindString }
func (*StringType) GoType() reflect.Type  { return reflect.TypeOf("") }
func (*StringType) MakeTemp() interface{} { return new(string) }
func (*StringType) FreeTemp(interface{})  {}

// BytesType is the Bytes TypeKind.
type BytesType struct{ baseType }

func (*BytesType) Kind() TypeKind        { return KindBytes }
func (*BytesType) GoType() reflect.Type  { return reflect.TypeOf([]byte(nil)) }
func (*BytesType) MakeTemp() interface{} { return new([]byte) }
func (*BytesType) FreeTemp(interface{})  {}

// ListType is an ordered, duplicate-permitting container.
type ListType struct {
	baseType
	Element Type
}

func (*ListType) Kind() TypeKind { return KindList }
func (t *ListType) GoType() reflect.Type {
	return reflect.SliceOf(t.Element.GoType())
}
func (t *ListType) MakeTemp() interface{} {
	return reflect.New(t.GoType()).Interface()
}
func (*ListType) FreeTemp(interface{}) {}

// Append move-inserts the element elemPtr points to onto the end of
// container (List.append). container must be addressable; the returned
// value is the (possibly reallocated) new container value.
func (t *ListType) Append(container reflect.Value, elemPtr interface{}) reflect.Value {
	return reflect.Append(container, reflect.ValueOf(elemPtr).Elem())
}

// SetType is an unordered container of unique elements, represented in Go
// as map[Element]struct{}.
type SetType struct {
	baseType
	Element Type
}

func (*SetType) Kind() TypeKind { return KindSet }
func (t *SetType) GoType() reflect.Type {
	return reflect.MapOf(t.Element.GoType(), reflect.TypeOf(struct{}{}))
}
func (t *SetType) MakeTemp() interface{} {
	return reflect.New(t.Element.GoType()).Interface()
}
func (*SetType) FreeTemp(interface{}) {}

// Insert move-inserts the element elemPtr points to into container
// (Set.insert).
func (t *SetType) Insert(container reflect.Value, elemPtr interface{}) {
	container.SetMapIndex(reflect.ValueOf(elemPtr).Elem(), reflect.ValueOf(struct{}{}))
}

// MapType is a key/value container.
type MapType struct {
	baseType
	Key   Type
	Value Type
}

func (*MapType) Kind() TypeKind { return KindMap }
func (t *MapType) GoType() reflect.Type {
	return reflect.MapOf(t.Key.GoType(), t.Value.GoType())
}
func (t *MapType) MakeTemp() interface{} {
	return reflect.New(t.GoType()).Interface()
}
func (*MapType) FreeTemp(interface{}) {}

// Add move-inserts a key/value pair into container (Map.add).
func (t *MapType) Add(container reflect.Value, keyPtr, valuePtr interface{}) {
	container.SetMapIndex(reflect.ValueOf(keyPtr).Elem(), reflect.ValueOf(valuePtr).Elem())
}

// StructType references a StructDescriptor — the Struct TypeKind.
type StructType struct {
	baseType
	Descriptor *StructDescriptor
}

func (*StructType) Kind() TypeKind { return KindStruct }
func (t *StructType) GoType() reflect.Type {
	return reflect.TypeOf((*Object)(nil)).Elem()
}

// MakeTemp returns a pointer to an Object-typed slot holding the struct's
// default (nil) instance; the decoder fills it by calling the descriptor's
// Factory when it encounters the struct.
func (t *StructType) MakeTemp() interface{} {
	var o Object
	return &o
}
func (*StructType) FreeTemp(interface{}) {}

// EnumType references an EnumDescriptor — the Enum TypeKind. Enum values
// are carried as their int32 ordinal.
type EnumType struct {
	baseType
	Descriptor *EnumDescriptor
}

func (*EnumType) Kind() TypeKind        { return KindEnum }
func (*EnumType) GoType() reflect.Type  { return reflect.TypeOf(int32(0)) }
func (*EnumType) MakeTemp() interface{} { return new(int32) }
func (*EnumType) FreeTemp(interface{})  {}

// ModifiedFlags are the boolean markers a ModifiedType adds to its element.
type ModifiedFlags struct {
	Const    bool
	Shared   bool
	Nullable bool
}

// ModifiedType wraps an element Type with const/shared/nullable markers.
// The wire-level semantics of a field are resolved by unwrapping the
// modifier and extracting flags before encode/decode.
type ModifiedType struct {
	baseType
	Element Type
	Flags   ModifiedFlags
}

func (*ModifiedType) Kind() TypeKind            { return KindModified }
func (t *ModifiedType) GoType() reflect.Type    { return t.Element.GoType() }
func (t *ModifiedType) MakeTemp() interface{}   { return t.Element.MakeTemp() }
func (t *ModifiedType) FreeTemp(v interface{})  { t.Element.FreeTemp(v) }

// Unwrap strips any Modified wrapper, returning the base type and the
// accumulated flag set (zero flags if t was not Modified).
func Unwrap(t Type) (Type, ModifiedFlags) {
	if m, ok := t.(*ModifiedType); ok {
		base, flags := Unwrap(m.Element)
		flags.Const = flags.Const || m.Flags.Const
		flags.Shared = flags.Shared || m.Flags.Shared
		flags.Nullable = flags.Nullable || m.Flags.Nullable
		return base, flags
	}
	return t, ModifiedFlags{}
}
