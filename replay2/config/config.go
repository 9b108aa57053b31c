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

// Package config contains a list of build configuration flags for replay2.
//
// Diagnostic behaviour is on by default. Build with the release tag to turn
// it off:
//
//	go build -tags release ./...
package config

const (
	// PoisonPattern is the byte sequence written repeatedly over replay
	// memory before it is released, so use-after-free shows up in dumps.
	PoisonPattern = "\xde\xad"
)
