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

import (
	"fmt"

	"github.com/google/agi/core/math/interval"
)

// Range is a half open region [Base, Base+Size) of the address space S.
// Ranges are ordered by Base.
type Range[S Space] struct {
	Base Address[S] // The address of the first byte in the range.
	Size uint64     // The size in bytes of the range.
}

// CaptureRange is a region of the traced application's memory.
type CaptureRange = Range[CaptureSpace]

// ReplayRange is a region of the replay process memory.
type ReplayRange = Range[ReplaySpace]

// End returns the address of one byte beyond the end of the range.
func (r Range[S]) End() Address[S] { return r.Base.Offset(r.Size) }

// OffsetOf returns the offset of addr from the range base, and true if addr
// lies within the range.
func (r Range[S]) OffsetOf(addr Address[S]) (uint64, bool) {
	if addr.loc < r.Base.loc {
		return 0, false
	}
	offset := addr.loc - r.Base.loc
	return offset, offset < r.Size
}

// Contains returns true if addr lies within the range.
func (r Range[S]) Contains(addr Address[S]) bool {
	_, ok := r.OffsetOf(addr)
	return ok
}

// Overlaps returns true if the two ranges share at least one byte.
func (r Range[S]) Overlaps(other Range[S]) bool {
	a, b := r.Span(), other.Span()
	return max(a.Start, b.Start) < min(a.End, b.End)
}

// Less returns true if r starts below other.
func (r Range[S]) Less(other Range[S]) bool { return r.Base.Less(other.Base) }

// Span returns the range as a U64Span.
func (r Range[S]) Span() interval.U64Span {
	return interval.U64Span{Start: r.Base.loc, End: r.Base.loc + r.Size}
}

func (r Range[S]) String() string {
	var s S
	return fmt.Sprintf("[0x%.16x-0x%.16x)@%s", r.Base.loc, r.Base.loc+r.Size, s.spaceName())
}
