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
	"math"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// Allocation is a block of replay memory.
type Allocation interface {
	// Bytes returns the allocated memory.
	Bytes() []byte
	// Free releases the memory. The allocation must not be used afterwards.
	Free() error
}

// Allocator is the interface to an object that provides replay memory.
// The memory must not belong to the Go heap, as its address is stored as a
// plain integer in ReplayAddress.
type Allocator interface {
	// Allocate returns a new allocation of exactly size bytes. size is never 0.
	Allocate(size uint64) (Allocation, error)
}

// MmapAllocator allocates replay memory as anonymous private mappings.
// Replay addresses are handed to foreign code and converted back into
// pointers, so replay memory must never live in the Go heap.
var MmapAllocator Allocator = mmapAllocator{}

func checkSize(size uint64) error {
	if size > math.MaxInt {
		return errors.Errorf("Cannot allocate %d bytes", size)
	}
	return nil
}

type mmapAllocator struct{}

type mmapAllocation struct{ m mmap.MMap }

func (mmapAllocator) Allocate(size uint64) (Allocation, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	m, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "Mapping %d bytes", size)
	}
	return &mmapAllocation{m}, nil
}

func (a *mmapAllocation) Bytes() []byte { return a.m }

func (a *mmapAllocation) Free() error {
	if a.m == nil {
		return errors.New("Mapping already released")
	}
	err := a.m.Unmap()
	a.m = nil
	return errors.Wrap(err, "Unmapping")
}

// addressOf returns the replay address of the first byte of b.
func addressOf(b []byte) ReplayAddress {
	return ReplayAddress{loc: uint64(uintptr(unsafe.Pointer(unsafe.SliceData(b))))}
}
