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

// Package replay holds the per-replay state that translates captured
// addresses and handles into live replay ones.
package replay

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/google/agi/core/log"
	"github.com/google/agi/replay2/handle"
	"github.com/google/agi/replay2/memory"
	"github.com/google/uuid"
)

// Session owns the memory and handle remappers of a single replay.
// It is not safe for concurrent use.
type Session struct {
	id      string
	memory  *memory.Remapper
	handles *handle.Remapper
}

// NewSession returns a new session identified by id, allocating replay
// memory from a. If id is empty a random identifier is generated.
// If a is nil, memory.MmapAllocator is used.
func NewSession(id string, a memory.Allocator) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:      id,
		memory:  memory.New(a),
		handles: handle.New(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Memory returns the session's memory remapper.
func (s *Session) Memory() *memory.Remapper { return s.memory }

// Handles returns the session's handle remapper.
func (s *Session) Handles() *handle.Remapper { return s.handles }

func (s *Session) enter(ctx context.Context, name string) context.Context {
	return log.V{"session": s.id}.Bind(log.Enter(ctx, name))
}

// Observe maps the observed capture memory into replay memory and returns the
// replay address of its first byte.
func (s *Session) Observe(ctx context.Context, o memory.Observation) (memory.ReplayAddress, error) {
	ctx = s.enter(ctx, "Observe")
	capture := o.Range()
	addr, err := s.memory.AddMapping(o)
	if err != nil {
		return memory.ReplayAddress{}, log.Errf(ctx, err, "Mapping %v", capture)
	}
	log.D(ctx, "Mapped %s at %v to %v", humanize.IBytes(capture.Size), capture.Base, addr)
	return addr, nil
}

// Release unmaps the capture memory observed at addr and frees its replay
// memory.
func (s *Session) Release(ctx context.Context, addr memory.CaptureAddress) error {
	ctx = s.enter(ctx, "Release")
	m, _ := s.memory.Lookup(addr)
	if err := s.memory.RemoveMapping(addr); err != nil {
		return log.Errf(ctx, err, "Releasing %v", addr)
	}
	log.D(ctx, "Released %s at %v", humanize.IBytes(m.Capture.Size), addr)
	return nil
}

// Remap returns the replay address of the capture address addr.
func (s *Session) Remap(ctx context.Context, addr memory.CaptureAddress) (memory.ReplayAddress, error) {
	out, err := s.memory.RemapCaptureAddress(addr)
	if err != nil {
		return memory.ReplayAddress{}, log.Errf(s.enter(ctx, "Remap"), err, "Remapping %v", addr)
	}
	return out, nil
}

// Close frees all the replay memory still held by the session.
func (s *Session) Close(ctx context.Context) error {
	ctx = s.enter(ctx, "Close")
	if n := s.memory.Count(); n > 0 {
		var size uint64
		for _, m := range s.memory.Mappings() {
			size += m.Replay.Size
		}
		log.W(ctx, "%d mappings (%s) still live at end of replay", n, humanize.IBytes(size))
	}
	if err := s.memory.Close(); err != nil {
		return log.Err(ctx, err, "Releasing replay memory")
	}
	return nil
}
