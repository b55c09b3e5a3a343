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

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// dumpOnFail registers a cleanup that spews v to the test log only if the
// test ends up failing, so a broken round-trip test shows the whole record
// tree instead of just the failed assertion line.
func dumpOnFail(t *testing.T, label string, v interface{}) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("%s:\n%s", label, spew.Sdump(v))
		}
	})
}

// encodeBinary runs obj through a fresh Encoder bound to DefaultRegistry and
// returns the written bytes.
func encodeBinary(t *testing.T, obj Object) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)
	require.NoError(t, enc.Encode(obj))
	return buf.Bytes()
}

// decodeBinary runs data through a fresh Decoder rooted at root.
func decodeBinary(t *testing.T, data []byte, root *StructDescriptor) Object {
	t.Helper()
	dec := NewDecoder(bytes.NewReader(data), nil)
	obj, err := dec.Decode(root)
	require.NoError(t, err)
	return obj
}

// encodeText runs obj through a fresh TextEncoder and returns the rendered
// document.
func encodeText(t *testing.T, obj Object) string {
	t.Helper()
	enc := NewTextEncoder()
	require.NoError(t, enc.Encode(obj))
	return enc.String()
}

// decodeText parses src against root using DefaultRegistry.
func decodeText(t *testing.T, src string, root *StructDescriptor) Object {
	t.Helper()
	dec, err := NewTextDecoder([]byte(src), "test.coda.txt", nil)
	require.NoError(t, err)
	obj, err := dec.Decode(root)
	require.NoError(t, err)
	return obj
}

// populatedS1 returns a fresh, mutable S1 with every scalar field set to the
// values spec.md's "Scalars" scenario names.
func populatedS1(t *testing.T) *S1 {
	t.Helper()
	s := NewS1()
	require.NoError(t, s.SetScalarBoolean(true))
	require.NoError(t, s.SetScalarI16(11))
	require.NoError(t, s.SetScalarI32(12))
	require.NoError(t, s.SetScalarI64(13))
	require.NoError(t, s.SetScalarFixedI16(14))
	require.NoError(t, s.SetScalarFixedI32(15))
	require.NoError(t, s.SetScalarFixedI64(16))
	require.NoError(t, s.SetScalarFloat(55.0))
	require.NoError(t, s.SetScalarDouble(56.0))
	require.NoError(t, s.SetScalarString("alpha\n\t"))
	require.NoError(t, s.SetScalarBytes([]byte("beta")))
	require.NoError(t, s.SetScalarEnum(E1Alt))
	return s
}

// s1Snapshot is a plain-data view of every S1 scalar field, used with
// go-cmp to diff a whole record's field values in one assertion instead of
// one require.Equal per field.
type s1Snapshot struct {
	Boolean      bool
	I16          int16
	I32          int32
	I64          int64
	FixedI16     int16
	FixedI32     int32
	FixedI64     int64
	Float        float32
	Double       float64
	String       string
	Bytes        []byte
	Enum         int32
	MapIntString map[int32]string
	MapStringInt map[string]int32
}

func snapshotS1(s *S1) s1Snapshot {
	return s1Snapshot{
		Boolean:      s.ScalarBoolean(),
		I16:          s.ScalarI16(),
		I32:          s.ScalarI32(),
		I64:          s.ScalarI64(),
		FixedI16:     s.ScalarFixedI16(),
		FixedI32:     s.ScalarFixedI32(),
		FixedI64:     s.ScalarFixedI64(),
		Float:        s.ScalarFloat(),
		Double:       s.ScalarDouble(),
		String:       s.ScalarString(),
		Bytes:        s.ScalarBytes(),
		Enum:         s.ScalarEnum(),
		MapIntString: s.MapIntString(),
		MapStringInt: s.MapStringInt(),
	}
}

// requireS1SnapshotsEqual diffs two S1 instances field-by-field via go-cmp,
// reporting every differing field at once rather than failing at the first
// require.Equal.
func requireS1SnapshotsEqual(t *testing.T, want, got *S1) {
	t.Helper()
	if diff := cmp.Diff(snapshotS1(want), snapshotS1(got)); diff != "" {
		t.Fatalf("S1 mismatch (-want +got):\n%s", diff)
	}
}
