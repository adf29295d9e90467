// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/treehill/reverso/request"
)

// A Policy controls if and how retries are done in a logical call.
// After every failed attempt, a Policy decides whether a retry should
// be done and, if so, how long the wait period should be before the
// next attempt.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// A Policy is composed of the Decider and Waiter interfaces. While you
// can implement Policy yourself, it is usually simpler to use one of
// the built-in retry policies, DefaultPolicy or Never, or to construct
// one with NewPolicy or Standard.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is the retry policy used when none is configured. It
// is a composition of DefaultDecider and DefaultWaiter: up to five
// retries of transport failures, 429 and 5xx responses, waiting 1s,
// 1.6s, 2.56s and so on, capped at two minutes.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries. Every logical call makes
// exactly one attempt.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("reverso/retry: nil decider")
	}
	if w == nil {
		panic("reverso/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

// Standard returns a policy which retries at most maxRetries times
// when the Retryable decider allows it, waiting according to w. A
// maxRetries of zero disables retries. If w is nil, DefaultWaiter is
// used.
func Standard(maxRetries int, w Waiter) Policy {
	if maxRetries < 0 {
		panic("reverso/retry: maxRetries must not be negative")
	}
	if w == nil {
		w = DefaultWaiter
	}
	return policy{decider: Times(maxRetries).And(Retryable), waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
