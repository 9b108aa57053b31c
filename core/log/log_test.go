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

package log_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/agi/core/assert"
	"github.com/google/agi/core/fault"
	"github.com/google/agi/core/log"
	"github.com/pkg/errors"
)

var testClock log.Clock

func init() {
	t, err := time.ParseInLocation("Mon Jan _2 15:04:05.999 2006", "Mon Jan 22 12:34:56.789 2000", time.Local)
	if err != nil {
		panic(err)
	}
	testClock = log.FixedClock(t)
}

type testMessage struct {
	msg      string
	args     []interface{}
	values   log.V
	severity log.Severity
	tag      string
	process  string

	raw      string
	brief    string
	normal   string
	detailed string
}

func (m testMessage) send(h log.Handler) {
	ctx := context.Background()
	ctx = log.PutHandler(ctx, h)
	ctx = log.PutTag(ctx, m.tag)
	ctx = log.PutProcess(ctx, m.process)
	ctx = log.PutClock(ctx, testClock)
	ctx = m.values.Bind(ctx)
	log.From(ctx).Logf(m.severity, false, m.msg, m.args...)
}

var testMessages = []testMessage{
	{
		msg:      "plain warning",
		severity: log.Warning,

		raw:      "plain warning",
		brief:    "W: plain warning",
		normal:   "12:34:56.789 W: plain warning",
		detailed: "12:34:56.789 Warning: plain warning",
	}, {
		msg:      "info with values",
		severity: log.Info,
		values:   log.V{"cat": "meow", "dog": "woof"},

		raw:      "info with values",
		brief:    "I: info with values",
		normal:   "12:34:56.789 I: info with values",
		detailed: "12:34:56.789 Info: info with values \n  cat: meow\n  dog: woof",
	}, {
		msg:      "mapped %d bytes",
		args:     []interface{}{128},
		severity: log.Debug,
		tag:      "memory",
		process:  "replayd",

		raw:      "mapped 128 bytes",
		brief:    "D: mapped 128 bytes",
		normal:   "12:34:56.789 D: [memory] <replayd> mapped 128 bytes",
		detailed: "12:34:56.789 Debug: [memory] <replayd> mapped 128 bytes",
	},
}

type messages []*log.Message

func (l *messages) Handle(m *log.Message) { *l = append(*l, m) }
func (l *messages) Close()                {}

func TestFilter(t *testing.T) {
	assert := assert.To(t)
	got := messages{}
	ctx := log.PutHandler(context.Background(), &got)
	ctx = log.PutFilter(ctx, log.SeverityFilter(log.Warning))
	log.D(ctx, "dropped")
	log.I(ctx, "dropped")
	log.W(ctx, "kept")
	log.E(ctx, "kept")
	assert.For("messages").ThatSlice(got).IsLength(2)
	for _, m := range got {
		assert.For("text").ThatString(m.Text).Equals("kept")
	}
}

func TestNoHandler(t *testing.T) {
	// Logging without a handler must be a no-op.
	log.E(context.Background(), "nobody is listening")
}

func TestEnter(t *testing.T) {
	assert := assert.To(t)
	got := messages{}
	ctx := log.PutHandler(context.Background(), &got)
	ctx = log.Enter(ctx, "Session")
	ctx = log.Enter(ctx, "Observe")
	log.I(ctx, "hello")
	assert.For("messages").ThatSlice(got).IsLength(1)
	assert.For("trace").ThatSlice(got[0].Trace).Equals([]string{"Observe", "Session"})
}

func TestBoundValues(t *testing.T) {
	assert := assert.To(t)
	got := messages{}
	ctx := log.PutHandler(context.Background(), &got)
	ctx = log.V{"session": "abc"}.Bind(ctx)
	log.Bind(ctx, log.V{"base": 0x1000}).I("bound")
	assert.For("messages").ThatSlice(got).IsLength(1)
	values := got[0].Values
	assert.For("values").ThatSlice(values).IsLength(2)
	assert.For("first").ThatString(values[0].Name).Equals("base")
	assert.For("second").ThatString(values[1].Name).Equals("session")
}

func TestErrKeepsCause(t *testing.T) {
	const cause = fault.Const("the cause")
	assert := assert.To(t)
	ctx := log.Testing(t)
	err := log.Errf(ctx, errors.Wrap(cause, "inner"), "outer %d", 1)
	assert.For("cause").ThatError(err).HasCause(cause)
	assert.For("is").That(errors.Is(err, cause)).Equals(true)
	assert.For("text").ThatString(err.Error()).Equals("outer 1\n   Cause: inner: the cause")
	assert.For("no cause").ThatString(log.Err(ctx, nil, "alone").Error()).Equals("alone")
}
