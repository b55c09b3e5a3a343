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

// E1 is the example enum referenced by S1.scalarEnum.
const (
	E1Default int32 = 0
	E1Alt     int32 = 1
)

// E1Descriptor describes the E1 enum.
var E1Descriptor = &EnumDescriptor{
	Name: "E1",
	Values: []EnumValue{
		{Label: "E1_DEFAULT", Value: E1Default},
		{Label: "E1_ALT", Value: E1Alt},
	},
}
