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
	"fmt"
	"reflect"
)

// FieldOptions are the per-field modifiers that drive wire-level decisions.
type FieldOptions struct {
	Fixed    bool // fixed-width hint: serialize FIXED16/32/64 instead of VARINT
	Nullable bool
	Shared   bool
}

// FieldDescriptor describes one field of a StructDescriptor: its wire id,
// its Type, and the closures generated code supplies to read/write it.
type FieldDescriptor struct {
	Name    string
	ID      int32
	Type    Type
	Options FieldOptions

	// PresenceBit is the index into the owning StructDescriptor's presence
	// bitset, or -1 if the field has no presence bit (absence means
	// "always present by default").
	PresenceBit int

	// Get/Set close over the generated record's concrete field storage;
	// Clear resets the field to its zero value. Set does not itself flip
	// the presence bit — the decoders do that via the owning descriptor's
	// SetPresence (markPresent); typed setters flip their own presence bits
	// directly.
	Get   func(Object) interface{}
	Set   func(Object, interface{})
	Clear func(Object)

	// owner is set once by StructDescriptor.buildFieldMaps.
	owner *StructDescriptor
}

// Has reports whether the field has been explicitly set on obj: always
// true when the field carries no presence bit, otherwise the bit's value.
func (f *FieldDescriptor) Has(obj Object) bool {
	if f.PresenceBit < 0 {
		return true
	}
	return f.owner.GetPresence(obj, f.PresenceBit)
}

// markPresent flips the field's presence bit, if it has one.
func (f *FieldDescriptor) markPresent(obj Object) {
	if f.PresenceBit >= 0 {
		f.owner.SetPresence(obj, f.PresenceBit, true)
	}
}

// clearPresence clears the field's presence bit, if it has one.
func (f *FieldDescriptor) clearPresence(obj Object) {
	if f.PresenceBit >= 0 {
		f.owner.SetPresence(obj, f.PresenceBit, false)
	}
}

// EnumValue is one (label, ordinal) pair of an EnumDescriptor.
type EnumValue struct {
	Label string
	Value int32
}

// EnumDescriptor describes a schema enum: an ordered set of named int32
// values.
type EnumDescriptor struct {
	baseType

	Name   string
	Values []EnumValue

	byLabel map[string]int32
	byValue map[int32]string
}

func (*EnumDescriptor) Kind() TypeKind        { return KindEnum }
func (*EnumDescriptor) GoType() reflect.Type  { return reflect.TypeOf(int32(0)) }
func (*EnumDescriptor) MakeTemp() interface{} { return new(int32) }
func (*EnumDescriptor) FreeTemp(interface{})  {}

// buildLookups populates the name/value maps; called once by registration.
func (e *EnumDescriptor) buildLookups() {
	e.byLabel = make(map[string]int32, len(e.Values))
	e.byValue = make(map[int32]string, len(e.Values))
	for _, v := range e.Values {
		e.byLabel[v.Label] = v.Value
		e.byValue[v.Value] = v.Label
	}
}

// ValueOf resolves a label to its ordinal.
func (e *EnumDescriptor) ValueOf(label string) (int32, bool) {
	v, ok := e.byLabel[label]
	return v, ok
}

// LabelOf resolves an ordinal to its label.
func (e *EnumDescriptor) LabelOf(value int32) (string, bool) {
	l, ok := e.byValue[value]
	return l, ok
}

// StructDescriptor is a Type with full schema metadata: name, stable type
// id, single-inheritance base, ordered fields, nested structs/enums, and
// the hooks generated code provides to materialize and mutate instances.
type StructDescriptor struct {
	baseType

	FullName  string
	TypeID    int32 // 0 = root
	Enclosing *StructDescriptor
	Base      *StructDescriptor // nullable; single inheritance

	Fields        []*FieldDescriptor
	NestedStructs []*StructDescriptor
	NestedEnums   []*EnumDescriptor

	// DefaultInstance is a frozen, singleton, zero-valued instance.
	DefaultInstance Object
	// Factory materializes a fresh, mutable, zero-valued instance.
	Factory func() Object

	// GetPresence/SetPresence read and write the bit at index i in obj's
	// presence bitset.
	GetPresence func(obj Object, i int) bool
	SetPresence func(obj Object, i int, v bool)

	byName map[string]*FieldDescriptor
	byID   map[int32]*FieldDescriptor
}

func (*StructDescriptor) Kind() TypeKind { return KindStruct }

// GoType satisfies Type; structs are carried as the Object interface.
func (*StructDescriptor) GoType() reflect.Type {
	return reflect.TypeOf((*Object)(nil)).Elem()
}

// MakeTemp returns a pointer to an Object-typed slot; the decoder fills it
// via Factory when it encounters the struct.
func (s *StructDescriptor) MakeTemp() interface{} {
	var o Object
	return &o
}
func (*StructDescriptor) FreeTemp(interface{}) {}

// buildFieldMaps populates the name/id lookup maps and binds each field's
// owner pointer; called once when the descriptor is registered.
func (s *StructDescriptor) buildFieldMaps() {
	s.byName = make(map[string]*FieldDescriptor, len(s.Fields))
	s.byID = make(map[int32]*FieldDescriptor, len(s.Fields))
	for _, f := range s.Fields {
		f.owner = s
		s.byName[f.Name] = f
		s.byID[f.ID] = f
	}
}

// FieldByName looks up a field declared directly on this struct level (not
// on a base or subtype level) by name.
func (s *StructDescriptor) FieldByName(name string) (*FieldDescriptor, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// FieldByID looks up a field declared directly on this struct level by id.
func (s *StructDescriptor) FieldByID(id int32) (*FieldDescriptor, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Root walks the base chain and returns the ancestor with no base (itself
// if this descriptor has no base).
func (s *StructDescriptor) Root() *StructDescriptor {
	r := s
	for r.Base != nil {
		r = r.Base
	}
	return r
}

// IsSubtype reports whether the descriptor has a non-nil base.
func (s *StructDescriptor) IsSubtype() bool { return s.Base != nil }

// freezeLocal recursively freezes this descriptor and its nested
// descriptors (file registration triggers a transitive local freeze).
// Type freezing here is metadata-only: it marks the descriptor immutable,
// it does not touch any Object.
func (s *StructDescriptor) freezeLocal() {
	if !s.Mutable() {
		return
	}
	s.buildFieldMaps()
	s.baseType.Freeze()
	for _, n := range s.NestedStructs {
		n.freezeLocal()
	}
	for _, n := range s.NestedEnums {
		n.buildLookups()
		n.baseType.Freeze()
	}
}

// FileOptions carry per-code-generation-target package mapping and import
// metadata for a FileDescriptor: both PackageMap and Imports are keyed by
// target language (e.g. "cpp", "go"), since a single schema file maps to a
// different package name and a different import list per target.
type FileOptions struct {
	PackageMap map[string]string
	Imports    map[string][]string
}

// FileDescriptor groups the structs and enums declared in one schema file.
// Registering a file walks all structs recursively and inserts each struct
// with a non-nil base into the Registry.
type FileDescriptor struct {
	Name    string
	Package string
	Structs []*StructDescriptor
	Enums   []*EnumDescriptor
	Options FileOptions
}

// Register freezes every descriptor in the file and adds it to registry.
func (f *FileDescriptor) Register(registry *Registry) error {
	for _, s := range f.Structs {
		s.freezeLocal()
	}
	for _, e := range f.Enums {
		e.buildLookups()
		e.baseType.Freeze()
	}
	return registry.addFile(f)
}

// validateField is a small internal sanity check generated code can call
// while building a StructDescriptor literal, catching id collisions early
// instead of at first encode/decode.
func (s *StructDescriptor) validateField(f *FieldDescriptor) error {
	if _, dup := s.byID[f.ID]; dup {
		return fmt.Errorf("coda: struct %s: duplicate field id %d", s.FullName, f.ID)
	}
	return nil
}
