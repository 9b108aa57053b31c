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
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ResourceGenerator produces the replay side content of an observed capture
// memory region.
type ResourceGenerator interface {
	// Length returns the size in bytes of the region to allocate.
	Length() uint64
	// Generate writes the content into the Length() bytes of replay memory
	// starting at dst.
	Generate(dst ReplayAddress) error
}

// Bytes returns a view of size bytes of replay memory starting at addr.
// The memory must be owned by the caller for the lifetime of the slice.
func Bytes(addr ReplayAddress, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr.loc))), size)
}

type nullGenerator struct{ size uint64 }

// NullResourceGenerator returns a generator for size bytes that leaves the
// allocated memory untouched.
func NullResourceGenerator(size uint64) ResourceGenerator { return nullGenerator{size} }

func (g nullGenerator) Length() uint64                 { return g.size }
func (g nullGenerator) Generate(dst ReplayAddress) error { return nil }

type bytesGenerator struct{ data []byte }

// BytesResourceGenerator returns a generator that copies data into replay
// memory. data is not copied and must not be modified until the generator has
// been used.
func BytesResourceGenerator(data []byte) ResourceGenerator { return bytesGenerator{data} }

func (g bytesGenerator) Length() uint64 { return uint64(len(g.data)) }

func (g bytesGenerator) Generate(dst ReplayAddress) error {
	copy(Bytes(dst, g.Length()), g.data)
	return nil
}

// NewReader only fails on invalid options.
var zstdDecoder, _ = zstd.NewReader(nil)

type zstdGenerator struct {
	compressed []byte
	size       uint64
}

// ZstdResourceGenerator returns a generator that decompresses a zstd payload
// holding size bytes of observed memory.
func ZstdResourceGenerator(compressed []byte, size uint64) ResourceGenerator {
	return zstdGenerator{compressed, size}
}

func (g zstdGenerator) Length() uint64 { return g.size }

func (g zstdGenerator) Generate(dst ReplayAddress) error {
	buf := Bytes(dst, g.size)
	out, err := zstdDecoder.DecodeAll(g.compressed, buf[:0])
	if err != nil {
		return errors.Wrap(err, "Decompressing observation")
	}
	if uint64(len(out)) != g.size {
		return errors.Wrapf(ErrGeneratedSizeMismatch, "Decompressed %d bytes, expected %d", len(out), g.size)
	}
	if len(out) > 0 && unsafe.SliceData(out) != unsafe.SliceData(buf) {
		// The decoder outgrew buf part way through and moved to a new buffer.
		copy(buf, out)
	}
	return nil
}
