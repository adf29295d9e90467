// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package client

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality such as logging, metrics, or tracing.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// logical call starts.
	//
	// When Client fires BeforeExecutionStart, only the execution's ID
	// and Plan have been set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// physical attempt.
	//
	// When Client fires BeforeAttempt, the execution's Request field is
	// set to the HTTP request that WILL BE sent after all BeforeAttempt
	// handlers have finished. The request carries the signed
	// authentication headers, so handlers must not log its headers.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after an attempt
	// has received an HTTP response but before the response body is
	// read and buffered.
	//
	// BeforeReadBody fires for every received response, whatever its
	// status code.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after an
	// attempt failed because of a timeout.
	//
	// When Client fires AfterAttemptTimeout, the execution's Err field
	// is set to the timeout error, and its AttemptTimeouts counter has
	// been incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after an attempt is
	// concluded, successfully or not, and before the retry policy is
	// consulted.
	//
	// When Client fires AfterAttempt, the execution's Outcome is never
	// Pending.
	AfterAttempt
	// BeforeWait identifies the event that occurs after the retry
	// policy decided to retry, and before the client sleeps.
	//
	// When Client fires BeforeWait, the execution's Wait field holds
	// the delay about to be slept, and Attempt still holds the index of
	// the attempt that failed.
	BeforeWait
	// AfterPlanTimeout identifies the event that occurs after the
	// deadline on the plan context was exceeded. It may be detected
	// during an attempt or during the retry wait.
	AfterPlanTimeout
	// AfterExecutionEnd identifies the event that occurs after the
	// logical call ends.
	//
	// When Client fires AfterExecutionEnd, the execution's End and
	// Final fields are set.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"BeforeWait",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in a
// logical call, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		BeforeWait,
		AfterPlanTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
