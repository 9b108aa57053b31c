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

import "github.com/google/agi/core/fault"

const (
	ErrAddressAlreadyMapped       = fault.Const("Capture address is already mapped")
	ErrAddressNotMapped           = fault.Const("Capture address is not mapped")
	ErrRemoveMappingOffsetAddress = fault.Const("Cannot remove a mapping by an offset address")
	ErrZeroLengthMapping          = fault.Const("Cannot map a zero length address range")
	ErrAddressRangeOverflow       = fault.Const("Address range overflows the address space")
	ErrGeneratedSizeMismatch      = fault.Const("Generated data does not match the resource size")
	ErrAllocationSizeMismatch     = fault.Const("Allocation does not match the requested size")
)
