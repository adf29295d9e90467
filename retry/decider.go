// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/request"
	"github.com/treehill/reverso/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, and Before, and the
// built-in deciders Retryable, TransportErr, ServerErr and
// TransientErr; or implement your own. Use DeciderFunc to convert an
// ordinary function into a Decider, and to compose deciders using
// DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 5

// DefaultDecider allows up to DefaultTimes retries (up to 6 attempts in
// total) of any failure the Retryable decider accepts.
var DefaultDecider = Times(DefaultTimes).And(Retryable)

// Retryable is a decider that indicates a retry if the most recent
// attempt failed in the transport, or received status 429 or any 5xx
// status. Every other status, including 400, 403 and 404, is final.
var Retryable DeciderFunc = retryable

// TransportErr is a decider that indicates a retry if the most recent
// attempt produced no usable response: a connection failure, an attempt
// timeout, or a failure reading the response body.
var TransportErr DeciderFunc = transportErr

// ServerErr is a decider that indicates a retry if the most recent
// attempt received a response with a 5xx status.
var ServerErr DeciderFunc = serverErr

// TransientErr is a decider that indicates a retry if the current
// error is transient according to transient.Categorize. It is narrower
// than TransportErr, which retries every transport failure.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the zero-based index of the
// failed attempt, e.Attempt, is less than n.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the logical call.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider which returns true if the most
// recent attempt received a response whose status is one of ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

func retryable(e *request.Execution) bool {
	if e.Outcome() == request.TransportFailure {
		return true
	}
	return e.Response != nil && apierr.Retryable(e.StatusCode())
}

func transportErr(e *request.Execution) bool {
	return e.Outcome() == request.TransportFailure
}

func serverErr(e *request.Execution) bool {
	s := e.StatusCode()
	return e.Err == nil && 500 <= s && s < 600
}

func transientErr(e *request.Execution) bool {
	return transient.Categorize(e.Err) != transient.Not
}
