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

// Package memory maps observed capture memory ranges to replay memory.
//
// A Remapper owns one replay allocation for every live capture range, fills
// it from the observation's generator, and resolves any capture address within
// a live range to the replay address at the same offset.
package memory

import (
	"math"
	"slices"

	"github.com/google/agi/core/fault"
	"github.com/google/agi/core/math/interval"
	"github.com/google/agi/replay2/config"
	"github.com/pkg/errors"
)

// Mapping associates a capture range with the replay range that holds its
// content. Both ranges have the same size.
type Mapping struct {
	Capture CaptureRange
	Replay  ReplayRange
}

type entry struct {
	Mapping
	alloc Allocation
}

// mappingList is sorted by capture base, with no overlapping capture ranges.
type mappingList []entry

func (l mappingList) Length() int                        { return len(l) }
func (l mappingList) GetSpan(index int) interval.U64Span { return l[index].Capture.Span() }

// Remapper maps capture address ranges to replay memory.
// It is not safe for concurrent use.
type Remapper struct {
	allocator Allocator
	mappings  mappingList
}

// New returns an empty remapper that allocates replay memory from allocator.
// If allocator is nil, MmapAllocator is used.
func New(allocator Allocator) *Remapper {
	if allocator == nil {
		allocator = MmapAllocator
	}
	return &Remapper{allocator: allocator}
}

// AddMapping allocates replay memory for the observation, fills it with the
// observation's generator and maps the observed capture range to it.
// It returns the base address of the new replay memory.
func (r *Remapper) AddMapping(o Observation) (ReplayAddress, error) {
	capture := o.Range()
	switch {
	case capture.Size == 0:
		return ReplayAddress{}, errors.Wrapf(ErrZeroLengthMapping, "At %v", capture.Base)
	case capture.Size > math.MaxUint64-capture.Base.loc:
		return ReplayAddress{}, errors.Wrapf(ErrAddressRangeOverflow, "%d bytes at %v", capture.Size, capture.Base)
	}
	if i := interval.IndexOf(r.mappings, capture.Base.loc); i >= 0 {
		return ReplayAddress{}, errors.Wrapf(ErrAddressAlreadyMapped, "%v is inside %v", capture.Base, r.mappings[i].Capture)
	}
	if first, count := interval.Intersect(r.mappings, capture.Span()); count > 0 {
		return ReplayAddress{}, errors.Wrapf(ErrAddressAlreadyMapped, "%v overlaps %v", capture, r.mappings[first].Capture)
	}

	alloc, err := r.allocator.Allocate(capture.Size)
	if err != nil {
		return ReplayAddress{}, errors.Wrapf(err, "Allocating replay memory for %v", capture)
	}
	if got := uint64(len(alloc.Bytes())); got != capture.Size {
		err := errors.Wrapf(ErrAllocationSizeMismatch, "Allocated %d bytes", got)
		return ReplayAddress{}, discard(alloc, err, capture)
	}
	replay := ReplayRange{Base: addressOf(alloc.Bytes()), Size: capture.Size}
	if err := o.Generator.Generate(replay.Base); err != nil {
		return ReplayAddress{}, discard(alloc, errors.Wrap(err, "Generating content"), capture)
	}

	i := interval.Search(r.mappings, func(test interval.U64Span) bool {
		return capture.Base.loc < test.Start
	})
	r.mappings = slices.Insert(r.mappings, i, entry{Mapping{capture, replay}, alloc})
	return replay.Base, nil
}

// RemoveMapping releases the replay memory of the capture range based at addr
// and unmaps the range. addr must be the base of the range.
func (r *Remapper) RemoveMapping(addr CaptureAddress) error {
	i := interval.IndexOf(r.mappings, addr.loc)
	if i < 0 {
		return errors.Wrapf(ErrAddressNotMapped, "Removing %v", addr)
	}
	e := r.mappings[i]
	if e.Capture.Base != addr {
		return errors.Wrapf(ErrRemoveMappingOffsetAddress, "%v is inside %v", addr, e.Capture)
	}
	r.mappings = slices.Delete(r.mappings, i, i+1)
	if err := release(e.alloc); err != nil {
		return errors.Wrapf(err, "Releasing replay memory of %v", e.Capture)
	}
	return nil
}

// RemapCaptureAddress returns the replay address corresponding to addr, which
// may lie anywhere within a live capture range.
func (r *Remapper) RemapCaptureAddress(addr CaptureAddress) (ReplayAddress, error) {
	i := interval.IndexOf(r.mappings, addr.loc)
	if i < 0 {
		return ReplayAddress{}, errors.Wrapf(ErrAddressNotMapped, "Remapping %v", addr)
	}
	m := r.mappings[i]
	return m.Replay.Base.Offset(addr.loc - m.Capture.Base.loc), nil
}

// Lookup returns the mapping whose capture range contains addr.
func (r *Remapper) Lookup(addr CaptureAddress) (Mapping, bool) {
	if i := interval.IndexOf(r.mappings, addr.loc); i >= 0 {
		return r.mappings[i].Mapping, true
	}
	return Mapping{}, false
}

// Count returns the number of live mappings.
func (r *Remapper) Count() int { return len(r.mappings) }

// Mappings returns the live mappings ordered by capture address.
func (r *Remapper) Mappings() []Mapping {
	out := make([]Mapping, len(r.mappings))
	for i, e := range r.mappings {
		out[i] = e.Mapping
	}
	return out
}

// Close releases the replay memory of every live mapping and empties the
// remapper. Every allocation is released even if some fail, and the first
// failure is returned.
func (r *Remapper) Close() error {
	errs := fault.List{}
	for _, e := range r.mappings {
		if err := release(e.alloc); err != nil {
			errs.Collect(errors.Wrapf(err, "Releasing replay memory of %v", e.Capture))
		}
	}
	r.mappings = nil
	return errs.First()
}

// discard frees an allocation that never became a mapping, and returns err
// annotated with the capture range it was for. err stays the cause.
func discard(a Allocation, err error, capture CaptureRange) error {
	if ferr := a.Free(); ferr != nil {
		return errors.Wrapf(err, "Mapping %v (releasing its memory also failed: %v)", capture, ferr)
	}
	return errors.Wrapf(err, "Mapping %v", capture)
}

func release(a Allocation) error {
	if config.PoisonFreedMemory {
		poison(a.Bytes())
	}
	return a.Free()
}

func poison(b []byte) {
	for i := range b {
		b[i] = config.PoisonPattern[i%len(config.PoisonPattern)]
	}
}
