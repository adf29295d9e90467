// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// A Kind identifies the category of an Error.
type Kind int

const (
	// Validation indicates invalid construction or call arguments. A
	// Validation error is always raised before any network activity.
	Validation Kind = iota + 1
	// Transport indicates that no HTTP response was received on the
	// final attempt: connection refused or reset, DNS or TLS failure,
	// attempt timeout, or a failure while reading the response body.
	Transport
	// BadRequest corresponds to HTTP status 400.
	BadRequest
	// Authorization corresponds to HTTP status 403.
	Authorization
	// NotFound corresponds to HTTP status 404.
	NotFound
	// TooManyRequests corresponds to HTTP status 429.
	TooManyRequests
	// ServiceUnavailable corresponds to HTTP status 503.
	ServiceUnavailable
	// InvalidContent indicates a successful response whose body could
	// not be decoded although the caller required valid JSON.
	InvalidContent
	// UnknownStatus covers every other HTTP status outside 200-399.
	UnknownStatus
)

var kindNames = map[Kind]string{
	Validation:         "validation",
	Transport:          "transport",
	BadRequest:         "bad request",
	Authorization:      "authorization",
	NotFound:           "not found",
	TooManyRequests:    "too many requests",
	ServiceUnavailable: "service unavailable",
	InvalidContent:     "invalid content",
	UnknownStatus:      "unknown status",
}

// String returns a short lower-case name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Error is a terminal error surfaced to the caller of a logical
// call.
//
// StatusCode is the HTTP status of the final attempt, or zero if there
// was no response (Validation and Transport errors). Body holds the raw
// response body, if any. Err holds the underlying cause, if any.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

// Sentinel values for use with errors.Is. An *Error matches a sentinel
// when both have the same Kind.
var (
	ErrValidation         = &Error{Kind: Validation}
	ErrTransport          = &Error{Kind: Transport}
	ErrBadRequest         = &Error{Kind: BadRequest}
	ErrAuthorization      = &Error{Kind: Authorization}
	ErrNotFound           = &Error{Kind: NotFound}
	ErrTooManyRequests    = &Error{Kind: TooManyRequests}
	ErrServiceUnavailable = &Error{Kind: ServiceUnavailable}
	ErrInvalidContent     = &Error{Kind: InvalidContent}
	ErrUnknownStatus      = &Error{Kind: UnknownStatus}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Err != nil {
		return "reverso: " + msg + ": " + e.Err.Error()
	}
	return "reverso: " + msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewValidation returns a Validation error with the given message.
func NewValidation(msg string) *Error {
	return &Error{Kind: Validation, Message: msg}
}

// NewTransport returns a Transport error wrapping the final attempt's
// transport failure.
func NewTransport(err error) *Error {
	return &Error{Kind: Transport, Message: "connection failure", Err: err}
}

// NewInvalidContent returns an InvalidContent error for a response body
// which failed to decode.
func NewInvalidContent(err error, body []byte) *Error {
	return &Error{Kind: InvalidContent, Message: "invalid response content", Body: body, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// StatusCode returns the HTTP status code carried by the first *Error
// in err's chain, or zero.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Success reports whether statusCode is in the success range 200-399.
func Success(statusCode int) bool {
	return 200 <= statusCode && statusCode < 400
}

// Retryable reports whether a response with the given status code is
// transient: 429 and every 5xx status are, all other codes are not.
func Retryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(500 <= statusCode && statusCode < 600)
}

// Classify maps a completed HTTP response to nil (status 200-399) or
// an *Error whose Kind is determined by the status code.
//
// The message starts with a reason phrase for the status. If body is
// valid JSON, its "message" and "detail" fields are appended when
// present; otherwise the raw body is appended. Classify never fails on
// an unparsable body.
func Classify(statusCode int, body []byte) error {
	if Success(statusCode) {
		return nil
	}

	suffix := bodySuffix(body)
	e := &Error{StatusCode: statusCode, Body: body}
	switch statusCode {
	case http.StatusForbidden:
		e.Kind = Authorization
		e.Message = "Authorization failure, check authentication key" + suffix
	case http.StatusNotFound:
		e.Kind = NotFound
		e.Message = "Not found, check server url" + suffix
	case http.StatusBadRequest:
		e.Kind = BadRequest
		e.Message = "Bad request" + suffix
	case http.StatusTooManyRequests:
		e.Kind = TooManyRequests
		e.Message = "Too many requests, Reverso servers are currently experiencing high load" + suffix
	case http.StatusServiceUnavailable:
		e.Kind = ServiceUnavailable
		e.Message = "Service unavailable" + suffix
	default:
		e.Kind = UnknownStatus
		e.Message = fmt.Sprintf("Unexpected status code: %d%s, content: %s", statusCode, suffix, body)
	}
	return e
}

func bodySuffix(body []byte) string {
	if !gjson.ValidBytes(body) {
		if len(body) == 0 {
			return ""
		}
		return ", " + string(body)
	}

	var b strings.Builder
	if m := gjson.GetBytes(body, "message"); m.Exists() && m.Type != gjson.Null {
		b.WriteString(", message: ")
		b.WriteString(m.String())
	}
	if d := gjson.GetBytes(body, "detail"); d.Exists() && d.Type != gjson.Null {
		b.WriteString(", detail: ")
		b.WriteString(d.String())
	}
	return b.String()
}
