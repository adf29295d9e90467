// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/treehill/reverso/request"

	"github.com/stretchr/testify/assert"
)

var errContextCanceled = context.Canceled

func TestDefault(t *testing.T) {
	t.Run("Decider", func(t *testing.T) {
		s := []int{429, 500, 502, 503, 504}
		for i := 0; i < DefaultTimes; i++ {
			assert.True(t, DefaultPolicy.Decide(&request.Execution{
				Attempt: i,
				Response: &http.Response{
					StatusCode: s[i%len(s)],
				},
			}))
			assert.True(t, DefaultPolicy.Decide(&request.Execution{
				Attempt: i,
				Err:     &url.Error{Op: "Get", URL: "http://x", Err: syscall.ECONNRESET},
			}))
		}
		assert.False(t, DefaultPolicy.Decide(&request.Execution{
			Attempt: DefaultTimes,
			Err:     &url.Error{Op: "Get", URL: "http://x", Err: syscall.ETIMEDOUT},
		}))
	})
	t.Run("Waiter", func(t *testing.T) {
		assert.Equal(t, time.Second, DefaultPolicy.Wait(&request.Execution{Attempt: 0}))
		assert.Equal(t, 1600*time.Millisecond, DefaultPolicy.Wait(&request.Execution{Attempt: 1}))
		assert.Equal(t, 120*time.Second, DefaultPolicy.Wait(&request.Execution{Attempt: 100}))
	})
}

func TestNever(t *testing.T) {
	assert.False(t, Never.Decide(&request.Execution{Response: &http.Response{StatusCode: 503}}))
	assert.False(t, Never.Decide(&request.Execution{Attempt: 1}))
}

func TestStandard(t *testing.T) {
	t.Run("zero retries", func(t *testing.T) {
		p := Standard(0, nil)
		assert.False(t, p.Decide(&request.Execution{Response: &http.Response{StatusCode: 503}}))
	})
	t.Run("two retries", func(t *testing.T) {
		p := Standard(2, NewFixedWaiter(time.Millisecond))
		e := &request.Execution{Response: &http.Response{StatusCode: 429}}
		e.Attempt = 0
		assert.True(t, p.Decide(e))
		e.Attempt = 1
		assert.True(t, p.Decide(e))
		e.Attempt = 2
		assert.False(t, p.Decide(e))
		assert.Equal(t, time.Millisecond, p.Wait(e))
	})
	t.Run("not retryable", func(t *testing.T) {
		p := Standard(3, nil)
		assert.False(t, p.Decide(&request.Execution{Response: &http.Response{StatusCode: 400}}))
		assert.False(t, p.Decide(&request.Execution{Response: &http.Response{StatusCode: 403}}))
		assert.False(t, p.Decide(&request.Execution{Response: &http.Response{StatusCode: 404}}))
	})
	t.Run("nil waiter means default", func(t *testing.T) {
		p := Standard(1, nil)
		assert.Equal(t, DefaultBase, p.Wait(&request.Execution{}))
	})
	t.Run("negative", func(t *testing.T) {
		assert.Panics(t, func() { Standard(-1, nil) })
	})
}

func TestNewPolicy(t *testing.T) {
	p := &testPolicy{}
	t.Run("Bad Args", func(t *testing.T) {
		assert.PanicsWithValue(t, "reverso/retry: nil decider", func() { NewPolicy(nil, p) })
		assert.PanicsWithValue(t, "reverso/retry: nil waiter", func() { NewPolicy(p, nil) })
	})
	t.Run("Normal", func(t *testing.T) {
		P := NewPolicy(p, p)
		assert.True(t, P.Decide(&request.Execution{}))
		assert.Equal(t, 1, p.d)
		assert.Equal(t, time.Second, P.Wait(&request.Execution{}))
		assert.Equal(t, 1, p.w)
	})
}

type testPolicy struct {
	d int
	w int
}

func (p *testPolicy) Decide(_ *request.Execution) bool {
	p.d++
	return true
}

func (p *testPolicy) Wait(_ *request.Execution) time.Duration {
	p.w++
	return time.Second
}
