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

func TestTextRoundTripScalars(t *testing.T) {
	s := populatedS1(t)
	src := encodeText(t, s)
	dumpOnFail(t, "rendered text", src)

	got := decodeText(t, src, S1Descriptor).(*S1)
	require.True(t, s.Equals(got))
	requireS1SnapshotsEqual(t, s, got)
}

func TestTextRoundTripListOfStructsDenseFieldIDs(t *testing.T) {
	lv := NewListValue()
	iv11, iv12, iv13 := NewIntegerValue(), NewIntegerValue(), NewIntegerValue()
	require.NoError(t, iv11.SetValue(11))
	require.NoError(t, iv12.SetValue(12))
	require.NoError(t, iv13.SetValue(13))
	require.NoError(t, lv.SetItems([]Object{iv11, iv12, iv13}))

	src := encodeText(t, lv)
	got := decodeText(t, src, ListValueDescriptor).(*ListValue)

	require.Len(t, got.Items(), 3)
	for i, want := range []int32{11, 12, 13} {
		require.Equal(t, want, got.Items()[i].(*IntegerValue).Value())
	}
}

func TestTextRoundTripEmptyList(t *testing.T) {
	lv := NewListValue()
	require.NoError(t, lv.SetItems([]Object{}))

	src := encodeText(t, lv)
	got := decodeText(t, src, ListValueDescriptor).(*ListValue)

	require.True(t, got.HasItems())
	require.Len(t, got.Items(), 0)
}

func TestTextRoundTripMaps(t *testing.T) {
	s := NewS1()
	require.NoError(t, s.SetMapIntString(map[int32]string{300: "three_oh_oh", 301: "three_oh_one"}))
	require.NoError(t, s.SetMapStringInt(map[string]int32{"three_oh_oh": 300, "three_oh_one": 301}))

	src := encodeText(t, s)
	got := decodeText(t, src, S1Descriptor).(*S1)

	require.Equal(t, map[int32]string{300: "three_oh_oh", 301: "three_oh_one"}, got.MapIntString())
	require.Equal(t, map[string]int32{"three_oh_oh": 300, "three_oh_one": 301}, got.MapStringInt())
}

// TestTextRoundTripSubtype also exercises the bug this encoder used to have:
// a subtype header rendered with a dotted FullName would not lex back as a
// single identifier (see simpleName in text_encoder.go).
func TestTextRoundTripSubtype(t *testing.T) {
	s2 := NewS2()
	left := NewS1()
	require.NoError(t, left.SetScalarI32(7))
	require.NoError(t, s2.SetLeft(left))

	src := encodeText(t, s2)
	dumpOnFail(t, "rendered text", src)
	require.Contains(t, src, "(S2)")
	require.NotContains(t, src, "(example.S2)")

	got := decodeText(t, src, S1Descriptor).(*S2)
	require.True(t, got.HasLeft())
	require.Equal(t, int32(7), got.Left().ScalarI32())
	require.False(t, got.HasRight())
}

func TestTextRoundTripSharedObject(t *testing.T) {
	o := NewS1()
	require.NoError(t, o.SetScalarI32(42))
	s3 := NewS3()
	require.NoError(t, s3.SetSList([]Object{o, o}))

	src := encodeText(t, s3)
	dumpOnFail(t, "rendered text", src)
	require.Contains(t, src, "#1")
	require.Contains(t, src, "%1")

	got := decodeText(t, src, S3Descriptor).(*S3)
	require.Len(t, got.SList(), 2)
	require.Same(t, got.SList()[0], got.SList()[1])
}

func TestTextStringRoundTripUTF8AndNUL(t *testing.T) {
	s := NewS1()
	require.NoError(t, s.SetScalarString("café 中文 \x00 end"))

	src := encodeText(t, s)
	got := decodeText(t, src, S1Descriptor).(*S1)
	require.Equal(t, "café 中文 \x00 end", got.ScalarString())
}

func TestTextBytesRoundTripViaBinaryLiteral(t *testing.T) {
	s := NewS1()
	raw := []byte{0x00, 0x01, 0xff, 0x7f, 0x80}
	require.NoError(t, s.SetScalarBytes(raw))

	src := encodeText(t, s)
	require.Contains(t, src, "<[")
	require.Contains(t, src, "]>")

	got := decodeText(t, src, S1Descriptor).(*S1)
	require.Equal(t, raw, got.ScalarBytes())
}
