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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTripScalars(t *testing.T) {
	s := populatedS1(t)
	dumpOnFail(t, "scalars", s)

	data := encodeBinary(t, s)
	got := decodeBinary(t, data, S1Descriptor).(*S1)

	require.True(t, got.ScalarBoolean())
	require.Equal(t, int16(11), got.ScalarI16())
	require.Equal(t, int32(12), got.ScalarI32())
	require.Equal(t, int64(13), got.ScalarI64())
	require.Equal(t, int16(14), got.ScalarFixedI16())
	require.Equal(t, int32(15), got.ScalarFixedI32())
	require.Equal(t, int64(16), got.ScalarFixedI64())
	require.Equal(t, float32(55.0), got.ScalarFloat())
	require.Equal(t, float64(56.0), got.ScalarDouble())
	require.Equal(t, "alpha\n\t", got.ScalarString())
	require.Equal(t, []byte("beta"), got.ScalarBytes())
	require.Equal(t, E1Alt, got.ScalarEnum())
	require.True(t, s.Equals(got))
	requireS1SnapshotsEqual(t, s, got)
}

func TestBinaryRoundTripListOfStructsDenseFieldIDs(t *testing.T) {
	lv := NewListValue()
	iv11, iv12, iv13 := NewIntegerValue(), NewIntegerValue(), NewIntegerValue()
	require.NoError(t, iv11.SetValue(11))
	require.NoError(t, iv12.SetValue(12))
	require.NoError(t, iv13.SetValue(13))
	require.NoError(t, lv.SetItems([]Object{iv11, iv12, iv13}))
	dumpOnFail(t, "list of structs", lv)

	data := encodeBinary(t, lv)
	got := decodeBinary(t, data, ListValueDescriptor).(*ListValue)

	require.Len(t, got.Items(), 3)
	for i, want := range []int32{11, 12, 13} {
		require.Equal(t, want, got.Items()[i].(*IntegerValue).Value())
	}
}

func TestBinaryRoundTripEmptyList(t *testing.T) {
	lv := NewListValue()
	require.NoError(t, lv.SetItems([]Object{}))

	data := encodeBinary(t, lv)
	got := decodeBinary(t, data, ListValueDescriptor).(*ListValue)

	require.True(t, got.HasItems())
	require.Len(t, got.Items(), 0)
}

func TestBinaryRoundTripMaps(t *testing.T) {
	s := NewS1()
	require.NoError(t, s.SetMapIntString(map[int32]string{300: "three_oh_oh", 301: "three_oh_one"}))
	require.NoError(t, s.SetMapStringInt(map[string]int32{"three_oh_oh": 300, "three_oh_one": 301}))
	dumpOnFail(t, "maps", s)

	data := encodeBinary(t, s)
	got := decodeBinary(t, data, S1Descriptor).(*S1)

	require.Equal(t, map[int32]string{300: "three_oh_oh", 301: "three_oh_one"}, got.MapIntString())
	require.Equal(t, map[string]int32{"three_oh_oh": 300, "three_oh_one": 301}, got.MapStringInt())
}

func TestBinaryRoundTripSubtype(t *testing.T) {
	s2 := NewS2()
	left := NewS1()
	require.NoError(t, left.SetScalarI32(7))
	require.NoError(t, s2.SetLeft(left))
	dumpOnFail(t, "subtype", s2)

	data := encodeBinary(t, s2)
	got := decodeBinary(t, data, S1Descriptor).(*S2)

	require.True(t, got.HasLeft())
	require.Equal(t, int32(7), got.Left().ScalarI32())
	require.False(t, got.HasRight())
	require.Nil(t, got.Right())
}

func TestBinaryRoundTripSharedObject(t *testing.T) {
	o := NewS1()
	require.NoError(t, o.SetScalarI32(42))
	s3 := NewS3()
	require.NoError(t, s3.SetSList([]Object{o, o}))
	dumpOnFail(t, "shared object", s3)

	data := encodeBinary(t, s3)
	got := decodeBinary(t, data, S3Descriptor).(*S3)

	require.Len(t, got.SList(), 2)
	require.Same(t, got.SList()[0], got.SList()[1])
	require.Equal(t, int32(42), got.SList()[0].(*S1).ScalarI32())
}

func TestBinaryIntegerZeroOneCollapse(t *testing.T) {
	cases := []struct {
		name string
		v    int32
		dt   dataType
	}{
		{"zero", 0, dtZero},
		{"one", 1, dtOne},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewS1()
			require.NoError(t, s.SetScalarI32(tc.v))
			data := encodeBinary(t, s)

			// A single present Integer field collapsed to ZERO/ONE followed
			// immediately by END is exactly two bytes: the tag and the
			// struct terminator.
			require.Len(t, data, 2)
			dt, high := unpackTag(data[0])
			require.Equal(t, tc.dt, dt)
			require.Equal(t, 3, high) // scalarI32 is field id 3, delta from 0

			got := decodeBinary(t, data, S1Descriptor).(*S1)
			require.Equal(t, tc.v, got.ScalarI32())
		})
	}
}

// newBoundaryDescriptor(15/16) builds minimal root descriptors (no subtype),
// backed by boundaryHolder, carrying a
// single Integer field at the exact id boundary where the tag's high
// nibble stops being able to pack a field-id delta (spec.md §8: "Field-id
// delta of exactly 15 packs into the tag byte; delta of 16 spills to
// explicit varint").
type boundaryHolder struct {
	Base
	presence PresenceBits
	v        int32
}

func newBoundaryDescriptor(id int32) *StructDescriptor {
	d := &StructDescriptor{
		FullName: "test.Boundary",
		TypeID:   0,
		GetPresence: func(obj Object, i int) bool {
			return obj.(*boundaryHolder).presence.Get(i)
		},
		SetPresence: func(obj Object, i int, v bool) {
			obj.(*boundaryHolder).presence.Set(i, v)
		},
	}
	d.Factory = func() Object { return &boundaryHolder{Base: NewBase(d)} }
	d.Fields = []*FieldDescriptor{{
		Name:        "v",
		ID:          id,
		Type:        &IntegerType{Bits: 32},
		PresenceBit: 0,
		Get:         func(o Object) interface{} { return o.(*boundaryHolder).v },
		Set:         func(o Object, v interface{}) { o.(*boundaryHolder).v, _ = v.(int32) },
	}}
	(&FileDescriptor{Structs: []*StructDescriptor{d}}).Register(NewRegistry())
	return d
}

func (b *boundaryHolder) Equals(other Object) bool {
	o, ok := other.(*boundaryHolder)
	return ok && b.v == o.v
}
func (b *boundaryHolder) HashValue() uint64 { h := NewHasher(); h.WriteInt(int64(b.v)); return h.Sum() }
func (b *boundaryHolder) Clone() Object     { return &boundaryHolder{Base: NewBase(b.Descriptor()), v: b.v} }

func TestBinaryFieldIDDeltaBoundary(t *testing.T) {
	t.Run("delta 15 packs into tag byte", func(t *testing.T) {
		d := newBoundaryDescriptor(15)
		o := d.Factory().(*boundaryHolder)
		o.v = 7
		o.presence.Set(0, true)

		data := encodeBinary(t, o)
		require.Len(t, data, 3) // tag byte + varint(7) + end byte
		_, high := unpackTag(data[0])
		require.Equal(t, 15, high)

		got := decodeBinary(t, data, d).(*boundaryHolder)
		require.Equal(t, int32(7), got.v)
	})

	t.Run("delta 16 spills to explicit varint", func(t *testing.T) {
		d := newBoundaryDescriptor(16)
		o := d.Factory().(*boundaryHolder)
		o.v = 7
		o.presence.Set(0, true)

		data := encodeBinary(t, o)
		_, high := unpackTag(data[0])
		require.Equal(t, 0, high) // 0 means "explicit varint follows"

		got := decodeBinary(t, data, d).(*boundaryHolder)
		require.Equal(t, int32(7), got.v)
	})
}

// subtypeBoundaryHolder is used both as the root default instance and the
// storage for every subtype in the id-boundary test below: one Go type,
// several StructDescriptors layered over the same struct via Base's
// descriptor pointer, matching the pattern the real example types use for
// a root-plus-subtype pair.
type subtypeBoundaryHolder struct {
	Base
}

func (b *subtypeBoundaryHolder) Equals(other Object) bool {
	_, ok := other.(*subtypeBoundaryHolder)
	return ok
}
func (b *subtypeBoundaryHolder) HashValue() uint64 { return uint64(b.TypeID()) }
func (b *subtypeBoundaryHolder) Clone() Object {
	return &subtypeBoundaryHolder{Base: NewBase(b.Descriptor())}
}

func TestBinarySubtypeIDBoundary(t *testing.T) {
	root := &StructDescriptor{FullName: "test.SubtypeRoot", TypeID: 0}
	root.Factory = func() Object { return &subtypeBoundaryHolder{Base: NewBase(root)} }

	sub15 := &StructDescriptor{FullName: "test.Sub15", TypeID: 15, Base: root}
	sub15.Factory = func() Object { return &subtypeBoundaryHolder{Base: NewBase(sub15)} }
	sub16 := &StructDescriptor{FullName: "test.Sub16", TypeID: 16, Base: root}
	sub16.Factory = func() Object { return &subtypeBoundaryHolder{Base: NewBase(sub16)} }
	root.NestedStructs = []*StructDescriptor{sub15, sub16}

	reg := NewRegistry()
	require.NoError(t, (&FileDescriptor{Structs: []*StructDescriptor{root}}).Register(reg))

	t.Run("subtype id 15 packs into the SUBTYPE tag", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, reg)
		require.NoError(t, enc.Encode(sub15.Factory()))
		data := buf.Bytes()
		dt, high := unpackTag(data[0])
		require.Equal(t, dtSubtype, dt)
		require.Equal(t, 15, high)

		dec := NewDecoder(bytes.NewReader(data), reg)
		got, err := dec.Decode(root)
		require.NoError(t, err)
		require.Same(t, sub15, got.Descriptor())
	})

	t.Run("subtype id 16 emits explicit varint after the tag", func(t *testing.T) {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, reg)
		require.NoError(t, enc.Encode(sub16.Factory()))
		data := buf.Bytes()
		dt, high := unpackTag(data[0])
		require.Equal(t, dtSubtype, dt)
		require.Equal(t, 0, high)

		dec := NewDecoder(bytes.NewReader(data), reg)
		got, err := dec.Decode(root)
		require.NoError(t, err)
		require.Same(t, sub16, got.Descriptor())
	})
}
