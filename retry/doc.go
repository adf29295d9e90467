// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides policies for retrying failed attempts during a
// logical Reverso API call, and for computing how long to wait before
// retrying.
//
// The interface Policy defines a retry Policy. A Policy instance can be
// constructed using NewPolicy by providing a decision-maker, Decider,
// and a wait time calculator, Waiter. Both have constructors for the
// common cases:
//
//	decider := retry.Times(3).And(retry.Retryable)
//	waiter := retry.NewExpWaiter(500*time.Millisecond, 2, 10*time.Second)
//	policy := retry.NewPolicy(decider, waiter)
//
// The client never consults the policy after a successful attempt, so
// deciders only need to reason about failures.
package retry
