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

// Object is implemented by every generated record. The runtime never knows
// concrete record types; it only ever holds an Object and asks its
// descriptor for field access.
type Object interface {
	Descriptor() *StructDescriptor
	TypeID() int32
	IsMutable() bool
	Freeze(children func())
	IsInstanceOf(d *StructDescriptor) bool
	Equals(other Object) bool
	HashValue() uint64
	Clone() Object
}

// Base is embedded by every generated record to provide the mutability
// flag, freeze protocol, and is-a test. Generated code
// supplies the rest of Object (Equals/HashValue/Clone and the field
// accessors) itself, since those are field-shape specific.
type Base struct {
	desc    *StructDescriptor
	mutable bool
}

// NewBase returns a Base bound to desc with the mutable flag set, as every
// freshly constructed record starts out.
func NewBase(desc *StructDescriptor) Base {
	return Base{desc: desc, mutable: true}
}

// Descriptor returns the struct descriptor that is this object's dynamic
// type.
func (b *Base) Descriptor() *StructDescriptor { return b.desc }

// TypeID reports the descriptor's stable type id.
func (b *Base) TypeID() int32 { return b.desc.TypeID }

// IsMutable reports whether the record has not yet been frozen.
func (b *Base) IsMutable() bool { return b.mutable }

// IsInstanceOf walks the base chain looking for d.
func (b *Base) IsInstanceOf(d *StructDescriptor) bool {
	for s := b.desc; s != nil; s = s.Base {
		if s == d {
			return true
		}
	}
	return false
}

// checkMutable is the precondition every setter on a generated record must
// call before writing a field. It fails with IllegalMutationError naming
// the descriptor.
func (b *Base) checkMutable() error {
	if !b.mutable {
		return newIllegalMutation(b.desc.FullName)
	}
	return nil
}

// Freeze flips the mutable flag and, on the transition from mutable to
// frozen, invokes children (the generated freeze hook that transitively
// freezes owned sub-records, map values, and set/list elements). Freeze is
// idempotent: calling it on an already-frozen record is a no-op, including
// not re-invoking children.
func (b *Base) Freeze(children func()) {
	if !b.mutable {
		return
	}
	b.mutable = false
	if children != nil {
		children()
	}
}

// ObjectsEqual is the reflexive-on-identity, structural-otherwise equality
// rule every generated Equals should start from: identical pointers are
// always equal, and a nil/non-nil or cross-descriptor pair is never equal.
// The caller (generated code) still has to compare fields when this
// returns (false, false).
func ObjectsEqual(a, b Object) (equal bool, decided bool) {
	if a == b {
		return true, true
	}
	if a == nil || b == nil {
		return false, true
	}
	if a.Descriptor() != b.Descriptor() {
		return false, true
	}
	return false, false
}
