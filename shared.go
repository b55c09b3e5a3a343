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

// Shared-ref tables are ephemeral, stream-scoped id<->object tables used by
// both the binary and text codecs. They are never shared across goroutines
// or streams.

// encoderSharedTable assigns positive ids to shared objects in encounter
// order, and lets callers register externally-known objects under
// negative ids.
type encoderSharedTable struct {
	forward      map[Object]int64
	backward     map[int64]Object
	nextID       int64
	nextExternID int64
}

func newEncoderSharedTable() *encoderSharedTable {
	return &encoderSharedTable{
		forward:      make(map[Object]int64),
		backward:     make(map[int64]Object),
		nextID:       1,
		nextExternID: -1,
	}
}

// lookup reports the id previously assigned to o, if any.
func (t *encoderSharedTable) lookup(o Object) (int64, bool) {
	id, ok := t.forward[o]
	return id, ok
}

// register assigns the next positive id to o and returns it.
func (t *encoderSharedTable) register(o Object) int64 {
	id := t.nextID
	t.nextID++
	t.forward[o] = id
	t.backward[id] = o
	return id
}

// addExtern registers an externally-known object. A nil id assigns the
// next negative extern id; a caller-supplied id is honored verbatim and
// fails if it collides with a different object already at that id.
func (t *encoderSharedTable) addExtern(o Object, id *int64) (int64, error) {
	var assigned int64
	if id == nil {
		assigned = t.nextExternID
		t.nextExternID--
	} else {
		assigned = *id
		if existing, taken := t.backward[assigned]; taken && existing != o {
			return 0, newEncodingError("extern id %d already registered to a different object", assigned)
		}
	}
	t.forward[o] = assigned
	t.backward[assigned] = o
	return assigned, nil
}

// decoderSharedTable maps ids back to the objects the encoder assigned
// them to, in the same id space (positive encounter-order, negative
// extern).
type decoderSharedTable struct {
	byID   map[int64]Object
	nextID int64
}

func newDecoderSharedTable() *decoderSharedTable {
	return &decoderSharedTable{byID: make(map[int64]Object), nextID: 1}
}

// reserve allocates the next positive id for obj before its body is read,
// which is what permits cycles on the decode side even though the encode
// side forbids them.
func (t *decoderSharedTable) reserve(obj Object) int64 {
	id := t.nextID
	t.nextID++
	t.byID[id] = obj
	return id
}

// lookup resolves a previously-reserved or extern-registered id.
func (t *decoderSharedTable) lookup(id int64) (Object, bool) {
	o, ok := t.byID[id]
	return o, ok
}

// addExtern registers an externally-known object under a caller-chosen id.
func (t *decoderSharedTable) addExtern(obj Object, id int64) {
	t.byID[id] = obj
}

// inProgressSet is the encoder's cycle detector: re-entering an object
// already being serialized is an EncodingError.
type inProgressSet struct {
	set map[Object]bool
}

func newInProgressSet() *inProgressSet {
	return &inProgressSet{set: make(map[Object]bool)}
}

func (s *inProgressSet) enter(o Object) error {
	if s.set[o] {
		return newEncodingError("already serializing %s", o.Descriptor().FullName)
	}
	s.set[o] = true
	return nil
}

func (s *inProgressSet) leave(o Object) {
	delete(s.set, o)
}
