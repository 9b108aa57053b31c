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
	"bytes"
	"testing"

	"github.com/google/agi/core/assert"
	"github.com/google/agi/core/log"
	"github.com/google/agi/replay2/memory"
	"github.com/klauspost/compress/zstd"
)

func compress(t *testing.T, data []byte) []byte {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("Creating zstd encoder: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestBytesResourceGenerator(t *testing.T) {
	ctx := log.Testing(t)
	data := []byte("observed memory")
	r := memory.New(nil)
	p := memory.NewCaptureAddress(base)
	replay, err := r.AddMapping(memory.NewObservation(p, memory.BytesResourceGenerator(data)))
	assert.For(ctx, "AddMapping").ThatError(err).Succeeded()
	assert.For(ctx, "Content").ThatSlice(memory.Bytes(replay, uint64(len(data)))).Equals(data)
}

func TestNullResourceGenerator(t *testing.T) {
	ctx := log.Testing(t)
	r := memory.New(nil)
	p := memory.NewCaptureAddress(base)
	_, err := r.AddMapping(memory.NewObservation(p, memory.NullResourceGenerator(32)))
	assert.For(ctx, "AddMapping").ThatError(err).Succeeded()
	_, err = r.RemapCaptureAddress(p.Offset(31))
	assert.For(ctx, "Remap").ThatError(err).Succeeded()
}

func TestZstdResourceGenerator(t *testing.T) {
	ctx := log.Testing(t)
	data := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x05, 0x08, 0x0d}, 1000)
	compressed := compress(t, data)

	r := memory.New(nil)
	p := memory.NewCaptureAddress(base)
	g := memory.ZstdResourceGenerator(compressed, uint64(len(data)))
	replay, err := r.AddMapping(memory.NewObservation(p, g))
	assert.For(ctx, "AddMapping").ThatError(err).Succeeded()
	assert.For(ctx, "Content").ThatBoolean(bytes.Equal(memory.Bytes(replay, uint64(len(data))), data)).IsTrue()

	short := memory.ZstdResourceGenerator(compressed, uint64(len(data))+1)
	_, err = r.AddMapping(memory.NewObservation(p.Offset(0x10000), short))
	assert.For(ctx, "Size mismatch").ThatError(err).HasCause(memory.ErrGeneratedSizeMismatch)

	corrupt := memory.ZstdResourceGenerator([]byte("not zstd"), 8)
	_, err = r.AddMapping(memory.NewObservation(p.Offset(0x20000), corrupt))
	assert.For(ctx, "Corrupt payload").ThatError(err).Failed()
	assert.For(ctx, "Count").ThatInteger(r.Count()).Equals(1)
}
