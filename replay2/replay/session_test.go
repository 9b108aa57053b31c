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

package replay_test

import (
	"testing"

	"github.com/google/agi/core/assert"
	"github.com/google/agi/core/log"
	"github.com/google/agi/replay2/handle"
	"github.com/google/agi/replay2/memory"
	"github.com/google/agi/replay2/replay"
	"github.com/google/uuid"
)

const base = 0x10000000

func TestSessionID(t *testing.T) {
	ctx := log.Testing(t)
	s := replay.NewSession("trace-1", nil)
	assert.For(ctx, "Named").ThatString(s.ID()).Equals("trace-1")

	a, b := replay.NewSession("", nil), replay.NewSession("", nil)
	_, err := uuid.Parse(a.ID())
	assert.For(ctx, "Generated").ThatError(err).Succeeded()
	assert.For(ctx, "Unique").ThatString(a.ID()).NotEquals(b.ID())
}

func TestSessionObserve(t *testing.T) {
	ctx := log.Testing(t)
	s := replay.NewSession("", memory.MmapAllocator)
	p := memory.NewCaptureAddress(base)

	replayAddr, err := s.Observe(ctx, memory.NewObservation(p, memory.BytesResourceGenerator([]byte{1, 2, 3, 4})))
	assert.For(ctx, "Observe").ThatError(err).Succeeded()

	got, err := s.Remap(ctx, p.Offset(2))
	assert.For(ctx, "Remap").ThatError(err).Succeeded()
	assert.For(ctx, "Remap").That(got).Equals(replayAddr.Offset(2))
	assert.For(ctx, "Content").That(memory.Bytes(got, 1)[0]).Equals(byte(3))

	_, err = s.Observe(ctx, memory.NewObservation(p.Offset(1), memory.NullResourceGenerator(8)))
	assert.For(ctx, "Observe overlapping").ThatError(err).HasCause(memory.ErrAddressAlreadyMapped)

	err = s.Release(ctx, p.Offset(1))
	assert.For(ctx, "Release offset").ThatError(err).HasCause(memory.ErrRemoveMappingOffsetAddress)
	assert.For(ctx, "Release").ThatError(s.Release(ctx, p)).Succeeded()

	_, err = s.Remap(ctx, p)
	assert.For(ctx, "Remap released").ThatError(err).HasCause(memory.ErrAddressNotMapped)
	assert.For(ctx, "Close").ThatError(s.Close(ctx)).Succeeded()
}

func TestSessionClose(t *testing.T) {
	ctx := log.Testing(t)
	s := replay.NewSession("", nil)
	for i := uint64(0); i < 3; i++ {
		_, err := s.Observe(ctx, memory.NewObservation(memory.NewCaptureAddress(base+i*0x1000), memory.NullResourceGenerator(0x400)))
		assert.For(ctx, "Observe %d", i).ThatError(err).Succeeded()
	}
	assert.For(ctx, "Close").ThatError(s.Close(ctx)).Succeeded()
	assert.For(ctx, "Count").ThatInteger(s.Memory().Count()).Equals(0)
}

func TestSessionHandles(t *testing.T) {
	ctx := log.Testing(t)
	s := replay.NewSession("", nil)
	queue := handle.Type{Name: "VkQueue", Dispatchable: true}
	assert.For(ctx, "AddHandle").ThatError(s.Handles().AddHandle(queue, 0xa0, 0xb0)).Succeeded()
	got, err := s.Handles().RemapHandle(queue, 0xa0)
	assert.For(ctx, "RemapHandle").ThatError(err).Succeeded()
	assert.For(ctx, "RemapHandle").That(got).Equals(handle.Handle(0xb0))
}
