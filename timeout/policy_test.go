// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"errors"
	"math"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/treehill/reverso/request"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, DefaultPolicy.Timeout(&request.Execution{}))
	b := DefaultPolicy.Timeout(&request.Execution{AttemptTimeouts: 3, Err: syscall.ETIMEDOUT})
	assert.Equal(t, 10*time.Second, b)
}

func TestInfinite(t *testing.T) {
	assert.Equal(t, time.Duration(math.MaxInt64), Infinite.Timeout(&request.Execution{}))
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Second)
	assert.Equal(t, 33*time.Second, p.Timeout(&request.Execution{}))
	b := p.Timeout(&request.Execution{AttemptTimeouts: 1, Err: syscall.ETIMEDOUT, Attempt: 1})
	assert.Equal(t, 33*time.Second, b)
	assert.PanicsWithValue(t, "reverso/timeout: timeout must be positive", func() { Fixed(0) })
	assert.Panics(t, func() { Fixed(-time.Second) })
}

func TestAdaptive(t *testing.T) {
	p := Adaptive(5*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)
	x := &request.Execution{}
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.AttemptTimeouts = 1
	x.Err = &url.Error{Op: "Post", URL: "http://x", Err: context.DeadlineExceeded}
	assert.Equal(t, 10*time.Millisecond, p.Timeout(x))
	x.Attempt = 1
	x.Err = errors.New("just a routine problem")
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 2
	x.AttemptTimeouts = 2
	x.Err = syscall.ETIMEDOUT
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 3
	x.AttemptTimeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	assert.Panics(t, func() { Adaptive(time.Second, 0) })
}
