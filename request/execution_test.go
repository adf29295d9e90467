// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_Outcome(t *testing.T) {
	testCases := []struct {
		name     string
		e        Execution
		expected Outcome
	}{
		{
			name:     "nothing yet",
			expected: Pending,
		},
		{
			name:     "status 200",
			e:        Execution{Response: &http.Response{StatusCode: 200}},
			expected: Success,
		},
		{
			name:     "status 399",
			e:        Execution{Response: &http.Response{StatusCode: 399}},
			expected: Success,
		},
		{
			name:     "status 400",
			e:        Execution{Response: &http.Response{StatusCode: 400}},
			expected: HTTPError,
		},
		{
			name:     "status 199",
			e:        Execution{Response: &http.Response{StatusCode: 199}},
			expected: HTTPError,
		},
		{
			name:     "transport failure",
			e:        Execution{Err: &url.Error{Op: "Post", URL: "http://x", Err: syscall.ECONNREFUSED}},
			expected: TransportFailure,
		},
		{
			name: "body read failure after response",
			e: Execution{
				Response: &http.Response{StatusCode: 200},
				Err:      &url.Error{Op: "Post", URL: "http://x", Err: syscall.ECONNRESET},
			},
			expected: TransportFailure,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.e.Outcome())
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "http_error", HTTPError.String())
	assert.Equal(t, "transport_failure", TransportFailure.String())
	assert.Equal(t, "unknown", Outcome(-1).String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestExecution_StatusCode(t *testing.T) {
	e := &Execution{}
	t.Run("no Response", func(t *testing.T) {
		require.Nil(t, e.Response)
		assert.Equal(t, 0, e.StatusCode())
	})
	t.Run("with Response", func(t *testing.T) {
		e.Response = &http.Response{StatusCode: 429}
		assert.Equal(t, 429, e.StatusCode())
	})
}

func TestExecution_Header(t *testing.T) {
	e := &Execution{}
	t.Run("no Response", func(t *testing.T) {
		require.Nil(t, e.Response)
		assert.Nil(t, e.Header())
		assert.Empty(t, e.Header().Get("Retry-After"))
	})
	t.Run("with Response", func(t *testing.T) {
		h := http.Header{
			"Content-Type": []string{"application/json"},
			"Retry-After":  []string{"3"},
		}
		e.Response = &http.Response{
			Header: h,
		}
		assert.Equal(t, h, e.Header())
		assert.Equal(t, "3", e.Header().Get("Retry-After"))
	})
}

func TestExecution_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		e := &Execution{Start: time.Now().Add(-5 * time.Millisecond)}
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		assert.GreaterOrEqual(t, e.Duration(), 5*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		start := time.Now()
		e := &Execution{Start: start, End: start.Add(42 * time.Millisecond)}
		assert.True(t, e.Started())
		assert.True(t, e.Ended())
		assert.Equal(t, 42*time.Millisecond, e.Duration())
	})
}

func TestExecution_Timeout(t *testing.T) {
	t.Run("no error", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Timeout())
	})
	t.Run("generic error", func(t *testing.T) {
		e := &Execution{Err: errors.New("foo")}
		assert.False(t, e.Timeout())
	})
	t.Run("direct timeout", func(t *testing.T) {
		e := &Execution{Err: syscall.ETIMEDOUT}
		assert.True(t, e.Timeout())
	})
	t.Run("wrapped deadline", func(t *testing.T) {
		e := &Execution{Err: &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}}
		assert.True(t, e.Timeout())
	})
	t.Run("cancellation", func(t *testing.T) {
		e := &Execution{Err: &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}}
		assert.False(t, e.Timeout())
	})
}

func TestExecution_Value(t *testing.T) {
	t.Run("new Execution", func(t *testing.T) {
		e := &Execution{}
		assert.Nil(t, e.Value("foo"))
		e.SetValue("foo", "bar")
		assert.Equal(t, "bar", e.Value("foo"))
	})
	t.Run("different keys", func(t *testing.T) {
		e := &Execution{}
		e.SetValue("funky", "foo")
		e.SetValue(funKey{}, "bar")
		e.SetValue(funkyKey{}, "baz")
		assert.Equal(t, "foo", e.Value("funky"))
		assert.Equal(t, "bar", e.Value(funKey{}))
		assert.Equal(t, "baz", e.Value(funkyKey{}))
	})
	t.Run("same key overwritten", func(t *testing.T) {
		e := &Execution{}
		e.SetValue(funKey{}, "ham")
		e.SetValue(funkyKey{}, "eggs")
		e.SetValue(funKey{}, "spam")
		assert.Equal(t, "spam", e.Value(funKey{}))
		assert.Equal(t, "eggs", e.Value(funkyKey{}))
	})
}

type funKey struct{}

type funkyKey struct{}
