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

// Package interval provides algorithms over sorted lists of non-overlapping
// half open uint64 intervals.
package interval

// List is the interface to an object that can be used as an interval list by
// the algorithms in this package. The spans must be sorted by Start and must
// not overlap.
type List interface {
	// Length returns the number of elements in the list
	Length() int
	// GetSpan returns the span for the element at index in the list
	GetSpan(index int) U64Span
}

// Predicate is used as the condition for a Search
type Predicate func(test U64Span) bool

// IndexOf returns the index of the span the value is a part of, or -1 if not
// found.
func IndexOf(l List, value uint64) int {
	return findSpanFor(l, value)
}

// Search finds the first span for which the predicate returns true, or the
// list length if there is none. The predicate must be false for a prefix of
// the list and true for the rest of it.
func Search(l List, t Predicate) int {
	return search(l, t)
}

// Intersect finds the intervals from the list that overlap with the specified
// span. It returns the index of the first overlapping interval and the number
// of overlapping intervals.
func Intersect(l List, span U64Span) (first, count int) {
	s := intersection{}
	s.intersect(l, span)
	return s.lowIndex, s.overlap
}
