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

package memory_test

import (
	"github.com/google/agi/core/fault"
	"github.com/google/agi/replay2/memory"
)

const (
	errGenerate = fault.Const("Generator failed")
	errAllocate = fault.Const("Out of replay memory")
	errFree     = fault.Const("Release failed")
)

// modGenerator writes i % 256 at offset i.
type modGenerator uint64

func (g modGenerator) Length() uint64 { return uint64(g) }

func (g modGenerator) Generate(dst memory.ReplayAddress) error {
	b := memory.Bytes(dst, uint64(g))
	for i := range b {
		b[i] = byte(i % 256)
	}
	return nil
}

// constGenerator fills its memory with value.
type constGenerator struct {
	size  uint64
	value byte
}

func (g constGenerator) Length() uint64 { return g.size }

func (g constGenerator) Generate(dst memory.ReplayAddress) error {
	b := memory.Bytes(dst, g.size)
	for i := range b {
		b[i] = g.value
	}
	return nil
}

type failingGenerator uint64

func (g failingGenerator) Length() uint64                      { return uint64(g) }
func (g failingGenerator) Generate(memory.ReplayAddress) error { return errGenerate }

// recordingAllocator allocates from MmapAllocator and keeps a copy of the
// content of every allocation at the time it was freed.
type recordingAllocator struct {
	live     int
	freed    [][]byte
	fail     bool // Fail every Allocate.
	failFree bool // Fail every Free, after releasing the memory.
	short    bool // Return half of the requested size.
}

type recordedAllocation struct {
	owner *recordingAllocator
	alloc memory.Allocation
	data  []byte
}

func (a *recordingAllocator) Allocate(size uint64) (memory.Allocation, error) {
	if a.fail {
		return nil, errAllocate
	}
	alloc, err := memory.MmapAllocator.Allocate(size)
	if err != nil {
		return nil, err
	}
	data := alloc.Bytes()
	if a.short {
		data = data[:size/2]
	}
	a.live++
	return &recordedAllocation{owner: a, alloc: alloc, data: data}, nil
}

func (r *recordedAllocation) Bytes() []byte { return r.data }

func (r *recordedAllocation) Free() error {
	r.owner.live--
	r.owner.freed = append(r.owner.freed, append([]byte(nil), r.data...))
	if err := r.alloc.Free(); err != nil {
		return err
	}
	if r.owner.failFree {
		return errFree
	}
	return nil
}

// read returns the byte of replay memory at addr.
func read(addr memory.ReplayAddress) byte {
	return memory.Bytes(addr, 1)[0]
}
