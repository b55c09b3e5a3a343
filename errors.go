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

// IllegalMutationError is raised when a mutating operation is attempted on
// a frozen Object.
type IllegalMutationError struct {
	Descriptor string
}

func (e *IllegalMutationError) Error() string {
	return fmt.Sprintf("illegal mutation of frozen %s", e.Descriptor)
}

// newIllegalMutation builds an IllegalMutationError naming the descriptor
// that rejected the mutation.
func newIllegalMutation(descriptor string) error {
	return &IllegalMutationError{Descriptor: descriptor}
}

// EncodingError is raised for any failure while writing the binary wire
// format: monotonicity violations, cycles, id exhaustion, shared-id
// collisions, and depth-limit overruns in the text encoder.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return "encoding error: " + e.Message
}

func newEncodingError(format string, args ...interface{}) error {
	return &EncodingError{Message: fmt.Sprintf(format, args...)}
}

// ParsingError is raised by the text decoder for lexical, grammatical, or
// type-mismatch failures. It carries enough source position to build a
// useful diagnostic.
type ParsingError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParsingError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", path, e.Line, e.Column, e.Message)
}

func newParsingError(path string, line, column int, format string, args ...interface{}) error {
	return &ParsingError{
		Path:    path,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}
