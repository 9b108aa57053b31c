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

import "fmt"

// Space is the constraint satisfied by the address space tags.
// Only CaptureSpace and ReplaySpace satisfy it, so an Address can only belong
// to one of the two spaces and addresses of different spaces never mix.
type Space interface {
	CaptureSpace | ReplaySpace
	spaceName() string
}

// CaptureSpace tags addresses as recorded in the traced application process.
type CaptureSpace struct{}

// ReplaySpace tags addresses in the process re-executing the capture.
type ReplaySpace struct{}

func (CaptureSpace) spaceName() string { return "capture" }
func (ReplaySpace) spaceName() string  { return "replay" }

// Address is a memory location in the address space S.
type Address[S Space] struct {
	loc uint64
}

// CaptureAddress is an address in the traced application process.
type CaptureAddress = Address[CaptureSpace]

// ReplayAddress is an address in the replay process.
type ReplayAddress = Address[ReplaySpace]

// NewCaptureAddress returns the capture address at the location loc.
func NewCaptureAddress(loc uint64) CaptureAddress { return CaptureAddress{loc: loc} }

// NewReplayAddress returns the replay address at the location loc.
func NewReplayAddress(loc uint64) ReplayAddress { return ReplayAddress{loc: loc} }

// Location returns the raw memory location of the address.
func (a Address[S]) Location() uint64 { return a.loc }

// Offset returns the address offset by n bytes.
// The result is not bounds checked and wraps around on overflow.
func (a Address[S]) Offset(n uint64) Address[S] { return Address[S]{loc: a.loc + n} }

// Compare returns -1, 0 or 1 if a is respectively below, at or above b.
func (a Address[S]) Compare(b Address[S]) int {
	switch {
	case a.loc < b.loc:
		return -1
	case a.loc > b.loc:
		return 1
	default:
		return 0
	}
}

// Less returns true if a is below b.
func (a Address[S]) Less(b Address[S]) bool { return a.loc < b.loc }

func (a Address[S]) String() string {
	var s S
	if a.loc < 1<<32 {
		return fmt.Sprintf("0x%.8x@%s", a.loc, s.spaceName())
	}
	return fmt.Sprintf("0x%.16x@%s", a.loc, s.spaceName())
}
