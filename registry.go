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

import "fmt"

// Registry maps (root-base, typeId) to the subtype descriptor registered
// for it. Only root bases are indexed; subtype ids are unique within a
// root hierarchy.
//
// The teacher's typeResolver keeps a process-wide map-of-maps keyed by
// reflect.Type/id (type.go, typeIDToTypeInfo); Registry follows the same
// shape keyed by (*StructDescriptor root, typeId) instead, since Coda's
// subtypes are resolved by descriptor identity rather than reflection.
type Registry struct {
	subtypes map[*StructDescriptor]map[int32]*StructDescriptor
}

// NewRegistry returns an empty Registry. Tests should construct their own
// rather than share DefaultRegistry, to avoid cross-test pollution.
func NewRegistry() *Registry {
	return &Registry{subtypes: make(map[*StructDescriptor]map[int32]*StructDescriptor)}
}

// DefaultRegistry is the process-wide singleton default registry. It is
// safe to read concurrently once schema registration has finished;
// registration itself is not safe for concurrent callers to race, matching
// every other schema-setup API here.
var DefaultRegistry = NewRegistry()

// addSubtype walks the base chain to find the root, then inserts
// (root, descriptor.TypeID) -> descriptor. It fails if the descriptor has
// no base (it is itself a root — only subtypes are indexed), if TypeID is
// not positive, or if the slot is already taken.
func (r *Registry) addSubtype(desc *StructDescriptor) error {
	if desc.Base == nil {
		return fmt.Errorf("coda: %s has no base type; only subtypes are registered", desc.FullName)
	}
	if desc.TypeID <= 0 {
		return fmt.Errorf("coda: %s has non-positive type id %d", desc.FullName, desc.TypeID)
	}
	root := desc.Root()
	slot, ok := r.subtypes[root]
	if !ok {
		slot = make(map[int32]*StructDescriptor)
		r.subtypes[root] = slot
	}
	if existing, taken := slot[desc.TypeID]; taken {
		return fmt.Errorf("coda: root %s: type id %d already registered to %s, cannot register %s",
			root.FullName, desc.TypeID, existing.FullName, desc.FullName)
	}
	slot[desc.TypeID] = desc
	return nil
}

// getSubtype resolves a previously-registered subtype of root by id.
func (r *Registry) getSubtype(root *StructDescriptor, typeID int32) (*StructDescriptor, bool) {
	slot, ok := r.subtypes[root]
	if !ok {
		return nil, false
	}
	d, ok := slot[typeID]
	return d, ok
}

// addStruct registers s (if it has a base) then recurses into its nested
// structs, so a file's whole struct tree is walked in one call.
func (r *Registry) addStruct(s *StructDescriptor) error {
	if s.Base != nil {
		if err := r.addSubtype(s); err != nil {
			return err
		}
	}
	for _, nested := range s.NestedStructs {
		if err := r.addStruct(nested); err != nil {
			return err
		}
	}
	return nil
}

// addFile registers every top-level struct (and, transitively, every
// nested struct) declared in file.
func (r *Registry) addFile(file *FileDescriptor) error {
	for _, s := range file.Structs {
		if err := r.addStruct(s); err != nil {
			return err
		}
	}
	return nil
}
