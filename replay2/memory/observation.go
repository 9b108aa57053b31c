// Copyright (C) 2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

// Observation is a region of capture memory and the generator of its replay
// content. It is consumed by Remapper.AddMapping and not retained.
type Observation struct {
	CaptureAddress CaptureAddress
	Generator      ResourceGenerator
}

// NewObservation returns the observation of the generator's content at at.
func NewObservation(at CaptureAddress, g ResourceGenerator) Observation {
	return Observation{CaptureAddress: at, Generator: g}
}

// Range returns the capture range covered by the observation.
func (o Observation) Range() CaptureRange {
	return CaptureRange{Base: o.CaptureAddress, Size: o.Generator.Length()}
}
