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

// dataType is the low nibble of every tag byte in the binary wire format.
type dataType byte

const (
	dtEnd     dataType = 0
	dtZero    dataType = 1
	dtOne     dataType = 2
	dtVarint  dataType = 3
	dtFixed16 dataType = 4
	dtFixed32 dataType = 5
	dtFixed64 dataType = 6
	dtFloat   dataType = 7
	dtDouble  dataType = 8
	dtBytes   dataType = 9
	dtList    dataType = 10
	dtPList   dataType = 11
	dtMap     dataType = 12
	dtStruct  dataType = 13
	dtSStruct dataType = 14
	dtSubtype dataType = 15
)

// Standalone bytes usable only inside lists/maps, outside a field-header
// context: sharedRef is followed by a varint id (a back-reference),
// sharedDef is followed by a struct (a first-occurrence definition).
const (
	sharedRef byte = 0x10
	sharedDef byte = 0x20
)

// packTag builds a tag byte from a low-nibble DataType and a high-nibble
// value (a field-id delta 1..15, a packed subtype id 1..15, or 0 meaning
// "the real value follows as an explicit varint").
func packTag(dt dataType, high int) byte {
	return byte(high<<4) | byte(dt)
}

func unpackTag(b byte) (dt dataType, high int) {
	return dataType(b & 0x0f), int(b >> 4)
}

