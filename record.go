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

// This file is the support surface generated record code is expected to
// build on (spec.md §6.1, §9). The generator itself is out of scope; what
// ships here is what its output would call. Field storage is ordinary typed
// struct members plus a presence bitset (spec.md §9's option (a)), so the
// Encoder/Decoder drive a record purely through its StructDescriptor's
// field closures rather than through per-record beginWrite/endWrite
// methods — one generic struct walk replaces what the source expresses as
// a virtual method pair per level of the hierarchy.

// CheckMutable is the exported precondition every generated setter calls
// before writing a field; it fails with an IllegalMutationError naming the
// descriptor. Exported so generated record packages outside coda itself
// can call it from embedded Base.
func (b *Base) CheckMutable() error {
	return b.checkMutable()
}

// PresenceBits is a small fixed-size bitset generated records embed to back
// FieldDescriptor.PresenceBit. It is not safe for concurrent use, matching
// every other piece of per-object state in this runtime.
type PresenceBits uint64

// Get reports whether bit i is set.
func (p PresenceBits) Get(i int) bool {
	return p&(1<<uint(i)) != 0
}

// Set assigns bit i.
func (p *PresenceBits) Set(i int, v bool) {
	if v {
		*p |= 1 << uint(i)
	} else {
		*p &^= 1 << uint(i)
	}
}

// FreezeObject is the children hook generated Freeze implementations pass
// to Base.Freeze for a single nested record field: it freezes o if it is
// non-nil, and is a no-op otherwise.
func FreezeObject(o Object) {
	if o != nil {
		o.Freeze(nil)
	}
}

