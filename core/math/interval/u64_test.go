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

package interval

import (
	"testing"

	"github.com/google/agi/core/assert"
	"github.com/google/agi/core/log"
)

func TestIntersect(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name   string
		list   U64SpanList
		with   U64Span
		offset int
		count  int
	}{
		{"empty",
			U64SpanList{},
			U64Span{0, 10},
			0, 0,
		},
		{"match",
			U64SpanList{U64Span{10, 20}},
			U64Span{10, 20},
			0, 1,
		},
		{"start",
			U64SpanList{U64Span{10, 20}},
			U64Span{10, 15},
			0, 1,
		},
		{"end",
			U64SpanList{U64Span{10, 20}},
			U64Span{15, 20},
			0, 1,
		},
		{"middle",
			U64SpanList{U64Span{10, 20}},
			U64Span{12, 18},
			0, 1,
		},
		{"overlap 3",
			U64SpanList{U64Span{10, 20}, U64Span{30, 40}, U64Span{50, 60}},
			U64Span{15, 55},
			0, 3,
		},
		{"first 2",
			U64SpanList{U64Span{10, 20}, U64Span{30, 40}, U64Span{50, 60}},
			U64Span{10, 35},
			0, 2,
		},
		{"last 2",
			U64SpanList{U64Span{10, 20}, U64Span{30, 40}, U64Span{50, 60}},
			U64Span{35, 60},
			1, 2,
		},
	} {
		ctx := log.Enter(ctx, test.name)
		o, c := Intersect(&test.list, test.with)
		assert.For(ctx, "Offset").That(o).Equals(test.offset)
		assert.For(ctx, "Count").That(c).Equals(test.count)
	}
}

func TestU64SpanListIndexOf(t *testing.T) {
	l := U64SpanList{U64Span{10, 20}, U64Span{30, 40}, U64Span{50, 60}}
	ctx := log.Testing(t)
	ctx = log.V{"List": l}.Bind(ctx)
	for _, test := range []struct {
		value uint64
		index int
	}{
		{0, -1},
		{9, -1},
		{10, 0},
		{15, 0},
		{19, 0},
		{20, -1},
		{32, 1},
		{59, 2},
	} {
		ctx := log.V{"Value": test.value}.Bind(ctx)
		got := IndexOf(&l, test.value)
		assert.For(ctx, "got").That(got).Equals(test.index)
	}
}

func TestSearch(t *testing.T) {
	l := U64SpanList{U64Span{10, 20}, U64Span{30, 40}, U64Span{50, 60}}
	ctx := log.Testing(t)
	for _, test := range []struct {
		value uint64
		index int
	}{
		{0, 0},
		{10, 1},
		{29, 1},
		{30, 2},
		{50, 3},
		{100, 3},
	} {
		ctx := log.V{"Value": test.value}.Bind(ctx)
		got := Search(&l, func(s U64Span) bool { return test.value < s.Start })
		assert.For(ctx, "got").That(got).Equals(test.index)
	}
}
