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

// Package handle maps API object handles observed at capture time to the
// handles created during replay.
//
// Dispatchable handles identify exactly one object and are mapped once.
// Non-dispatchable handles may be returned for several objects by some
// drivers, so they are reference counted: adding the same capture handle
// again with the same replay handle takes another reference.
package handle

import (
	"fmt"

	"github.com/google/agi/core/fault"
	"github.com/pkg/errors"
)

const (
	ErrHandleCollision         = fault.Const("Capture handle is already mapped")
	ErrRemoveNonExistentHandle = fault.Const("Cannot remove a handle that is not mapped")
	ErrRemapNonExistentHandle  = fault.Const("Cannot remap a handle that is not mapped")
	ErrInternalConsistency     = fault.Const("Handle table is inconsistent")

	// ErrNonDispatchableHandleRedefinition is also an ErrHandleCollision.
	ErrNonDispatchableHandleRedefinition = redefinition("Non-dispatchable handle redefined with a different replay handle")
)

type redefinition string

func (e redefinition) Error() string { return string(e) }

// Is makes errors.Is(err, ErrHandleCollision) hold for redefinitions.
func (e redefinition) Is(target error) bool { return target == ErrHandleCollision }

// Handle is an opaque API object handle value.
type Handle uint64

func (h Handle) String() string { return fmt.Sprintf("0x%x", uint64(h)) }

// Type identifies a kind of API handle.
type Type struct {
	Name         string
	Dispatchable bool
}

func (t Type) String() string { return t.Name }

type table struct {
	handles map[Handle]Handle
	counts  map[Handle]int // Only used for non-dispatchable handles.
}

// Remapper maps capture handles to replay handles, per handle type.
// It is not safe for concurrent use.
type Remapper struct {
	tables map[Type]*table
}

// New returns an empty handle remapper.
func New() *Remapper {
	return &Remapper{tables: map[Type]*table{}}
}

func (r *Remapper) table(ty Type) *table {
	t, ok := r.tables[ty]
	if !ok {
		t = &table{handles: map[Handle]Handle{}, counts: map[Handle]int{}}
		r.tables[ty] = t
	}
	return t
}

// AddHandle maps the capture handle of type ty to replay.
func (r *Remapper) AddHandle(ty Type, capture, replay Handle) error {
	t := r.table(ty)
	existing, mapped := t.handles[capture]
	if ty.Dispatchable {
		if mapped {
			return errors.Wrapf(ErrHandleCollision, "%v %v is mapped to %v", ty, capture, existing)
		}
		t.handles[capture] = replay
		return nil
	}

	count, counted := t.counts[capture]
	switch {
	case !mapped && counted:
		return errors.Wrapf(ErrInternalConsistency, "%v %v has a count but no mapping", ty, capture)
	case mapped && (!counted || count <= 0):
		return errors.Wrapf(ErrInternalConsistency, "%v %v is mapped with count %d", ty, capture, count)
	case mapped && existing != replay:
		return errors.Wrapf(ErrNonDispatchableHandleRedefinition, "%v %v is mapped to %v, not %v", ty, capture, existing, replay)
	}
	t.handles[capture] = replay
	t.counts[capture] = count + 1
	return nil
}

// RemoveHandle drops a reference to the capture handle of type ty, unmapping
// it when no references remain.
func (r *Remapper) RemoveHandle(ty Type, capture Handle) error {
	t, ok := r.tables[ty]
	if !ok {
		return errors.Wrapf(ErrRemoveNonExistentHandle, "%v %v", ty, capture)
	}
	if _, mapped := t.handles[capture]; !mapped {
		return errors.Wrapf(ErrRemoveNonExistentHandle, "%v %v", ty, capture)
	}
	if ty.Dispatchable {
		delete(t.handles, capture)
		return nil
	}

	count, counted := t.counts[capture]
	switch {
	case !counted:
		return errors.Wrapf(ErrRemoveNonExistentHandle, "%v %v", ty, capture)
	case count <= 0:
		return errors.Wrapf(ErrInternalConsistency, "%v %v is mapped with count %d", ty, capture, count)
	case count == 1:
		delete(t.handles, capture)
		delete(t.counts, capture)
	default:
		t.counts[capture] = count - 1
	}
	return nil
}

// RemapHandle returns the replay handle mapped to the capture handle of type
// ty.
func (r *Remapper) RemapHandle(ty Type, capture Handle) (Handle, error) {
	t, ok := r.tables[ty]
	if !ok {
		return 0, errors.Wrapf(ErrRemapNonExistentHandle, "%v %v", ty, capture)
	}
	replay, mapped := t.handles[capture]
	if !mapped {
		return 0, errors.Wrapf(ErrRemapNonExistentHandle, "%v %v", ty, capture)
	}
	if !ty.Dispatchable {
		count, counted := t.counts[capture]
		if !counted {
			return 0, errors.Wrapf(ErrRemapNonExistentHandle, "%v %v", ty, capture)
		}
		if count <= 0 {
			return 0, errors.Wrapf(ErrInternalConsistency, "%v %v is mapped with count %d", ty, capture, count)
		}
	}
	return replay, nil
}

// Count returns the number of capture handles of type ty that are mapped.
func (r *Remapper) Count(ty Type) int {
	if t, ok := r.tables[ty]; ok {
		return len(t.handles)
	}
	return 0
}
