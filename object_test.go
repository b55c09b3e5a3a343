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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectReflexiveEquality(t *testing.T) {
	s := populatedS1(t)
	require.True(t, s.Equals(s))

	other := NewS1()
	require.False(t, s.Equals(other))
	require.True(t, other.Equals(other))
}

func TestObjectHashStableAcrossReads(t *testing.T) {
	s := populatedS1(t)
	h1 := s.HashValue()
	h2 := s.HashValue()
	require.Equal(t, h1, h2)

	// Map contributions must fold the same way regardless of Go's
	// randomized map iteration order.
	require.NoError(t, s.SetMapIntString(map[int32]string{300: "three_oh_oh", 301: "three_oh_one"}))
	h3 := s.HashValue()
	h4 := s.HashValue()
	require.Equal(t, h3, h4)
}

func TestObjectFreezeIsIdempotent(t *testing.T) {
	s := populatedS1(t)
	require.True(t, s.IsMutable())

	s.Freeze(nil)
	require.False(t, s.IsMutable())
	hashAfterFirstFreeze := s.HashValue()

	s.Freeze(nil) // second call must be a no-op, not panic or re-run children
	require.False(t, s.IsMutable())
	require.Equal(t, hashAfterFirstFreeze, s.HashValue())
}

func TestObjectFrozenSetterRaisesIllegalMutation(t *testing.T) {
	s := populatedS1(t)
	s.Freeze(nil)

	err := s.SetScalarI32(99)
	require.Error(t, err)
	var im *IllegalMutationError
	require.ErrorAs(t, err, &im)
	require.Equal(t, "example.S1", im.Descriptor)
}

func TestObjectFreezeFreezesOwnedChildren(t *testing.T) {
	s2 := NewS2()
	left := NewS1()
	require.NoError(t, left.SetScalarI32(7))
	require.NoError(t, s2.SetLeft(left))

	s2.Freeze(nil)
	require.False(t, s2.IsMutable())
	require.False(t, left.IsMutable())
	require.Error(t, left.SetScalarI32(1))
}

func TestObjectIsInstanceOf(t *testing.T) {
	var s2 Object = NewS2()
	require.True(t, s2.IsInstanceOf(S2Descriptor))
	require.True(t, s2.IsInstanceOf(S1Descriptor))

	var s1 Object = NewS1()
	require.True(t, s1.IsInstanceOf(S1Descriptor))
	require.False(t, s1.IsInstanceOf(S2Descriptor))
}

func TestObjectCloneIsMutableEqualAndIndependent(t *testing.T) {
	s := populatedS1(t)
	s.Freeze(nil)

	clone := s.Clone().(*S1)
	require.True(t, clone.IsMutable())
	require.True(t, clone.Equals(s))

	require.NoError(t, clone.SetScalarI32(999))
	require.False(t, clone.Equals(s))
	require.Equal(t, int32(12), s.ScalarI32())
}

func TestRegistrySubtypeUniqueness(t *testing.T) {
	reg := NewRegistry()

	root := &StructDescriptor{FullName: "dup.Root", TypeID: 0}
	subA := &StructDescriptor{FullName: "dup.A", TypeID: 1, Base: root}
	subB := &StructDescriptor{FullName: "dup.B", TypeID: 1, Base: root}
	root.NestedStructs = []*StructDescriptor{subA, subB}

	file := &FileDescriptor{Name: "dup.coda", Structs: []*StructDescriptor{root}}
	err := file.Register(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestRegistryResolvesRegisteredSubtype(t *testing.T) {
	got, ok := DefaultRegistry.getSubtype(S1Descriptor, 1)
	require.True(t, ok)
	require.Same(t, S2Descriptor, got)

	_, ok = DefaultRegistry.getSubtype(S1Descriptor, 99)
	require.False(t, ok)
}
