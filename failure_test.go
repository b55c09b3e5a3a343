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

// TestBinaryEncodeCycleRaisesEncodingError builds a genuine A->B->A cycle
// out of two S3 instances sharing each other through their shared sList
// field, then checks the encoder refuses to serialize it rather than
// recursing forever.
func TestBinaryEncodeCycleRaisesEncodingError(t *testing.T) {
	a, b := NewS3(), NewS3()
	require.NoError(t, a.SetSList([]Object{b}))
	require.NoError(t, b.SetSList([]Object{a}))

	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)
	err := enc.Encode(a)
	require.Error(t, err)
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	require.Contains(t, ee.Message, "already serializing")
}

func TestFrozenRecordSetterRaisesIllegalMutationAcrossAccessors(t *testing.T) {
	s := populatedS1(t)
	s.Freeze(nil)

	cases := []struct {
		name string
		do   func() error
	}{
		{"SetScalarBoolean", func() error { return s.SetScalarBoolean(false) }},
		{"SetScalarString", func() error { return s.SetScalarString("x") }},
		{"SetScalarBytes", func() error { return s.SetScalarBytes([]byte("x")) }},
		{"SetMapIntString", func() error { return s.SetMapIntString(map[int32]string{1: "a"}) }},
		{"Clear", func() error { return s.Clear() }},
		{"ClearScalarI32", func() error { return s.ClearScalarI32() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.do()
			require.Error(t, err)
			var im *IllegalMutationError
			require.ErrorAs(t, err, &im)
			require.Equal(t, "example.S1", im.Descriptor)
		})
	}
}

func TestTextParseUnknownFieldNamesFieldAndStruct(t *testing.T) {
	dec, err := NewTextDecoder([]byte(`{ foo: 1 }`), "t.coda.txt", nil)
	require.NoError(t, err)
	_, err = dec.Decode(S1Descriptor)
	require.Error(t, err)
	var pe *ParsingError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, pe.Message, "foo")
	require.Contains(t, pe.Message, "example.S1")
}

func TestTextParseSharedRefIntoNonSharedSlotFails(t *testing.T) {
	dec, err := NewTextDecoder([]byte(`{ scalarI32: %7 }`), "t.coda.txt", nil)
	require.NoError(t, err)
	_, err = dec.Decode(S1Descriptor)
	require.Error(t, err)
	var pe *ParsingError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, pe.Message, "not shared")
}
