// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/treehill/reverso/request"
)

// A Policy directs how the client sets the timeout of the initial
// attempt, and of any subsequent retries.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next attempt within
	// the execution e.
	Timeout(e *request.Execution) time.Duration
}

// DefaultTimeout is the per-attempt timeout used by DefaultPolicy.
const DefaultTimeout = 10 * time.Second

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of DefaultTimeout on each attempt.
var DefaultPolicy Policy = Fixed(DefaultTimeout)

// Infinite is a built-in timeout policy which never times out. Only
// the plan context can then end a slow attempt.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value d to set
// every attempt timeout. It panics if d is not positive.
func Fixed(d time.Duration) Policy {
	if d <= 0 {
		panic("reverso/timeout: timeout must be positive")
	}
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that lengthens the next timeout
// if the previous attempt timed out.
//
// Parameter usual is the timeout for the initial attempt and for any
// retry where the preceding attempt did not time out. Parameter after
// holds the timeouts to use after the first, second, and later attempt
// timeouts; once exhausted, its last element keeps being used.
//
// 	p := Adaptive(2*time.Second, 5*time.Second, 20*time.Second)
//
// Here p uses 2 seconds normally, 5 seconds after the first timeout,
// and 20 seconds after every later one.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	p = append(p, after...)
	for _, d := range p {
		if d <= 0 {
			panic("reverso/timeout: timeout must be positive")
		}
	}
	return policy(p)
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
