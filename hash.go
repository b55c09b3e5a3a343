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
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// Hasher accumulates a record's per-field hash contributions into a single
// combined murmur3 digest. Generated HashValue implementations create one
// Hasher, feed it the type id and each field in declared order, then read
// Sum.
type Hasher struct {
	h   murmur3.Hash64
	buf [8]byte
}

// NewHasher returns a fresh Hasher ready to accumulate one record's fields.
func NewHasher() *Hasher {
	return &Hasher{h: murmur3.New64()}
}

func (h *Hasher) writeUint64(v uint64) {
	binary.BigEndian.PutUint64(h.buf[:], v)
	_, _ = h.h.Write(h.buf[:])
}

// WriteTypeID folds a struct's type id into the digest; generated code
// calls this once before any fields so that two structurally-identical
// field sets from different descriptors still hash differently.
func (h *Hasher) WriteTypeID(id int32) { h.writeUint64(uint64(uint32(id))) }

func (h *Hasher) WriteBool(v bool) {
	if v {
		h.writeUint64(1)
	} else {
		h.writeUint64(0)
	}
}

// WriteInt folds any of the Integer kind's widths in, widened to int64.
func (h *Hasher) WriteInt(v int64) { h.writeUint64(uint64(v)) }

func (h *Hasher) WriteFloat32(v float32) { h.writeUint64(uint64(math.Float32bits(v))) }

func (h *Hasher) WriteFloat64(v float64) { h.writeUint64(math.Float64bits(v)) }

func (h *Hasher) WriteString(v string) {
	_, _ = h.h.Write([]byte(v))
	h.writeUint64(uint64(len(v)))
}

func (h *Hasher) WriteBytes(v []byte) {
	_, _ = h.h.Write(v)
	h.writeUint64(uint64(len(v)))
}

// WriteChild folds a nested record's own hash in, or a sentinel for nil.
func (h *Hasher) WriteChild(o Object) {
	if o == nil {
		h.writeUint64(0)
		return
	}
	h.writeUint64(o.HashValue())
}

// Sum returns the combined hash accumulated so far.
func (h *Hasher) Sum() uint64 { return h.h.Sum64() }
