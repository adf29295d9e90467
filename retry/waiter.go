// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math"
	"time"

	"github.com/treehill/reverso/request"
)

// A Waiter specifies how long to wait before retrying a failed attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The client will not call the Waiter on a retry policy if the policy
// Decider returned false.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// Defaults for the exponential backoff used by DefaultWaiter.
const (
	DefaultBase       = 1 * time.Second
	DefaultMultiplier = 1.6
	DefaultMax        = 120 * time.Second
)

// DefaultWaiter is the default retry wait policy: exponential backoff
// starting at DefaultBase, growing by DefaultMultiplier per attempt,
// and capped at DefaultMax.
var DefaultWaiter = NewExpWaiter(DefaultBase, DefaultMultiplier, DefaultMax)

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
func NewFixedWaiter(d time.Duration) Waiter {
	if d < 0 {
		panic("reverso/retry: fixed wait must not be negative")
	}
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula without jitter:
//
//	wait := min(base * multiplier**attempt, max)
//
// where attempt is the zero-based index of the attempt that just failed.
// The sequence of waits is therefore non-decreasing and never exceeds
// max.
//
// Base must be positive, multiplier must be at least 1, and max must be
// at least equal to base.
func NewExpWaiter(base time.Duration, multiplier float64, max time.Duration) Waiter {
	if base < 1 {
		panic("reverso/retry: base must be positive")
	}
	if multiplier < 1 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		panic("reverso/retry: multiplier must be a finite number of at least 1")
	}
	if max < base {
		panic("reverso/retry: max must be at least base")
	}
	return &expWaiter{
		base:       base,
		multiplier: multiplier,
		max:        max,
	}
}

type expWaiter struct {
	base       time.Duration
	multiplier float64
	max        time.Duration
}

func (w *expWaiter) Wait(e *request.Execution) time.Duration {
	attempt := e.Attempt
	if attempt < 0 {
		attempt = 0
	}

	d := float64(w.base) * math.Pow(w.multiplier, float64(attempt))
	if math.IsInf(d, 0) || math.IsNaN(d) || d >= float64(w.max) {
		return w.max
	}
	return time.Duration(d)
}
