// Copyright (C) 2017 Google Inc.
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

// Package keys registers the context keys used by the logging and replay
// packages so that the full set can be enumerated.
package keys

import "context"

// Link is a single entry in the list of keys registered on a context.
type Link struct {
	Value interface{}
	Next  *Link
}

// keySetType is hidden type so nobody can use the key list directly
type keySetType int

// keySet is the hidden key used to store the key list on the context.
const keySet = keySetType(0)

// Get returns the list of keys registered on the context, most recent first.
func Get(ctx context.Context) []interface{} {
	seen := map[interface{}]bool{}
	result := make([]interface{}, 0, 10)
	for link, _ := ctx.Value(keySet).(*Link); link != nil; link = link.Next {
		if !seen[link.Value] {
			seen[link.Value] = true
			result = append(result, link.Value)
		}
	}
	return result
}

// WithValue registers the key as well as adding the value to the context.
func WithValue(ctx context.Context, key interface{}, value interface{}) context.Context {
	old, _ := ctx.Value(keySet).(*Link)
	ctx = context.WithValue(ctx, key, value)
	return context.WithValue(ctx, keySet, &Link{Value: key, Next: old})
}
