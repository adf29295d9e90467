// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/transient"
)

// An Outcome is the result of the most recent request attempt within
// an execution.
type Outcome int

const (
	// Pending means no attempt has concluded yet, or an attempt is
	// underway.
	Pending Outcome = iota
	// Success means an HTTP response with a status in 200-399 was
	// received and its body fully read.
	Success
	// HTTPError means an HTTP response with any other status was
	// received and its body fully read.
	HTTPError
	// TransportFailure means no usable response was received: the
	// attempt failed to connect, timed out, or failed while reading
	// the response body.
	TransportFailure
)

var outcomeNames = []string{
	"pending",
	"success",
	"http_error",
	"transport_failure",
}

// String returns a short snake_case name for the outcome.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// An Execution represents the state of a single Plan execution: the
// outcome of the most recent attempt, and the retry state of the
// logical call.
//
// The client creates an Execution when a logical call starts, updates
// it as attempts are made, and returns it when the call ends. Timeout
// and retry policies and event handlers receive the same Execution.
// They may store data on it using SetValue, but should otherwise treat
// its exported fields as read-only. An Execution is owned by a single
// logical call and is never shared between concurrent calls.
type Execution struct {
	// ID uniquely identifies the logical call. It is assigned when the
	// execution starts and is suitable for correlating log lines,
	// metrics exemplars, and trace spans.
	ID string

	// Plan specifies the request plan being executed. It is never nil.
	Plan *Plan

	// Start is the start time of the execution.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the number of attempts made before the current one:
	// zero on the initial attempt, one on the first retry, and so on.
	// When the execution has ended it is the zero-based number of the
	// final attempt, so the number of physical attempts made is
	// Attempt+1.
	Attempt int

	// AttemptTimeouts is the count of attempts which timed out.
	AttemptTimeouts int

	// Request is the HTTP request made in the current or most recent
	// attempt.
	Request *http.Request

	// Response is the HTTP response received in the most recent
	// attempt. It is nil if the attempt failed before a response was
	// received, or while an attempt is underway.
	Response *http.Response

	// Err is the transport failure of the most recent attempt, or the
	// cancellation error if the execution was aborted. It is nil if the
	// most recent attempt received and fully read a response, whatever
	// its status code.
	//
	// Whenever Err is non-nil, it has the type *url.Error.
	Err error

	// Body is the complete response body read after the most recent
	// attempt. It is passed through byte-for-byte.
	Body []byte

	// Wait is the delay before the next attempt, as decided by the
	// retry policy. It is only meaningful during the BeforeWait event.
	Wait time.Duration

	// Final is the error the logical call returns to its caller. It is
	// set just before the execution ends, and is nil on success.
	Final error

	data context.Context
}

// Outcome classifies the most recent attempt.
func (e *Execution) Outcome() Outcome {
	if e.Err != nil {
		return TransportFailure
	}
	if e.Response == nil {
		return Pending
	}
	if apierr.Success(e.Response.StatusCode) {
		return Success
	}
	return HTTPError
}

// StatusCode returns the status code of the HTTP response from the
// most recent request attempt in the execution. If there is no HTTP
// response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent request
// attempt in the execution. If there is no HTTP response, the nil
// header is returned.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution. The key must follow the same rules as the key parameter in
// context.WithValue.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
