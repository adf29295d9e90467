// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/time/rate"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/auth"
	"github.com/treehill/reverso/request"
	"github.com/treehill/reverso/retry"
	"github.com/treehill/reverso/timeout"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "reverso-go"

var (
	emptyHandlers  = HandlerGroup{}
	errNilResponse = errors.New("reverso/client: HTTPDoer returned nil response and nil error")
)

// Config holds the construction parameters of a Client.
type Config struct {
	// BaseURL is the absolute server URL, for example
	// https://api.reverso.net. One trailing slash is removed.
	BaseURL string

	// Credentials are used to sign every request. Both fields must be
	// non-empty.
	Credentials auth.Credentials

	// Created is the timestamp sent in the Created header and covered
	// by the signature. It is fixed for the lifetime of the Client. If
	// zero, the local time at construction is used.
	Created time.Time

	// UserAgent is the User-Agent header value. If empty,
	// DefaultUserAgent is used.
	UserAgent string

	// Headers are extra headers sent on every request. They cannot
	// override User-Agent or the authentication headers.
	Headers map[string]string

	// HTTPDoer performs the physical attempts. If nil, an http.Client
	// over a clone of http.DefaultTransport is used. HTTPDoer and Proxy
	// are mutually exclusive.
	HTTPDoer HTTPDoer

	// Proxy is an optional proxy URL with scheme http, https, socks5 or
	// socks5h. It only applies to the default HTTPDoer.
	Proxy string

	// RetryPolicy decides when to retry failed attempts and how long to
	// wait before retrying. If nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy

	// TimeoutPolicy sets the timeout of each attempt. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// Handlers are invoked when designated events occur during a
	// logical call. If nil, no handlers run.
	Handlers *HandlerGroup

	// Limiter, if set, throttles physical attempts. Every attempt,
	// including retries, waits for one token.
	Limiter *rate.Limiter
}

// A Client executes logical calls against one Reverso server: it signs
// each physical attempt, enforces attempt timeouts, retries transient
// failures with backoff, and classifies the final outcome.
//
// A Client is immutable after New returns it and is safe for concurrent
// use by multiple goroutines. Concurrent logical calls share only the
// read-only header set; each call owns its own Execution.
//
// The HTTPDoer typically caches connections, so Client instances should
// be reused instead of created as needed.
type Client struct {
	base          *url.URL
	header        http.Header
	doer          HTTPDoer
	retryPolicy   retry.Policy
	timeoutPolicy timeout.Policy
	handlers      *HandlerGroup
	limiter       *rate.Limiter
}

// New validates cfg and returns a ready Client. Every validation failure
// is an *apierr.Error of kind Validation, and no network activity takes
// place.
func New(cfg Config) (*Client, error) {
	created := cfg.Created
	if created.IsZero() {
		created = time.Now()
	}
	signed, err := auth.Sign(cfg.Credentials, created)
	if err != nil {
		return nil, err
	}

	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	header, err := buildHeader(cfg.Headers, userAgent, signed)
	if err != nil {
		return nil, err
	}

	doer := cfg.HTTPDoer
	if doer != nil {
		if cfg.Proxy != "" {
			return nil, apierr.NewValidation("proxy cannot be combined with a custom HTTP doer")
		}
	} else {
		hc, err := newHTTPDoer(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		doer = hc
	}

	c := &Client{
		base:          base,
		header:        header,
		doer:          doer,
		retryPolicy:   cfg.RetryPolicy,
		timeoutPolicy: cfg.TimeoutPolicy,
		handlers:      cfg.Handlers,
		limiter:       cfg.Limiter,
	}
	if c.retryPolicy == nil {
		c.retryPolicy = retry.DefaultPolicy
	}
	if c.timeoutPolicy == nil {
		c.timeoutPolicy = timeout.DefaultPolicy
	}
	if c.handlers == nil {
		c.handlers = &emptyHandlers
	}
	return c, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Header returns a copy of the header set sent on every attempt.
func (c *Client) Header() http.Header {
	return c.header.Clone()
}

// Execute runs the logical call described by p and returns the final
// execution state.
//
// Attempts are made until one succeeds (status 200-399), the retry
// policy declines to retry, or the plan context ends. At most one
// attempt is made per retry the policy allows, plus the initial one.
// The retry policy is never consulted after a success.
//
// The returned Execution is never nil. The error is nil on success, an
// *apierr.Error of kind Transport if the final attempt received no
// usable response, the result of apierr.Classify if it received an
// error status, or a *url.Error wrapping the context error if the plan
// context was cancelled or its deadline passed. A rate limiter token
// that would only arrive after the plan deadline counts as the deadline
// passing; any other limiter failure is a Transport error.
func (c *Client) Execute(p *request.Plan) (*request.Execution, error) {
	e := &request.Execution{
		ID:   uuid.NewString(),
		Plan: p,
	}

	c.handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	var aborted error
	for n := 0; ; n++ {
		if aborted = c.ready(p, e); aborted != nil {
			break
		}
		e.Attempt = n
		c.attempt(p, e)
		if e.Timeout() {
			e.AttemptTimeouts++
			c.handlers.run(AfterAttemptTimeout, e)
		}
		c.handlers.run(AfterAttempt, e)
		if e.Outcome() == request.Success {
			break
		}
		if err := p.Context().Err(); err != nil {
			aborted = c.abort(p, e, err)
			break
		}
		if !c.retryPolicy.Decide(e) {
			break
		}
		e.Wait = c.retryPolicy.Wait(e)
		c.handlers.run(BeforeWait, e)
		if aborted = c.sleep(p, e); aborted != nil {
			break
		}
	}

	e.End = time.Now()
	e.Final = final(e, aborted)
	c.handlers.run(AfterExecutionEnd, e)
	return e, e.Final
}

// Do builds a plan from its arguments and executes it. The body may be
// any type accepted by request.BodyBytes. An invalid method, path or
// body is reported as a Validation error without any network activity.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*request.Execution, error) {
	p, err := request.NewPlanWithContext(ctx, method, path, body)
	if err != nil {
		return nil, invalidPlan(err)
	}
	addQuery(p, query)
	return c.Execute(p)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer, if it has one.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// ready checks the plan context and takes a rate limiter token before
// an attempt. A non-nil return aborts the call.
func (c *Client) ready(p *request.Plan, e *request.Execution) error {
	ctx := p.Context()
	if err := ctx.Err(); err != nil {
		return c.abort(p, e, err)
	}
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return c.abort(p, e, ctxErr)
		}
		if c.tokenWithinBurst() {
			if _, ok := ctx.Deadline(); ok {
				// The token would only be available after the plan deadline.
				return c.abort(p, e, fmt.Errorf("%w: %v", context.DeadlineExceeded, err))
			}
		}
		e.Err = urlErrorWrap(p.Method, p.URL(c.base).String(), err)
		return apierr.NewTransport(e.Err)
	}
	return nil
}

// tokenWithinBurst reports whether the limiter can ever grant a single
// token.
func (c *Client) tokenWithinBurst() bool {
	return c.limiter.Limit() == rate.Inf || c.limiter.Burst() >= 1
}

func (c *Client) attempt(p *request.Plan, e *request.Execution) {
	d := c.timeoutPolicy.Timeout(e)
	e.Request, e.Response, e.Body, e.Err, e.Wait = nil, nil, nil, nil, 0

	ctx, cancel := context.WithTimeout(p.Context(), d)
	defer cancel()
	e.Request = p.ToRequest(ctx, p.URL(c.base), c.requestHeader(p))
	c.handlers.run(BeforeAttempt, e)
	resp, err := c.doer.Do(e.Request)
	if err == nil && resp == nil {
		err = errNilResponse
	}
	if err != nil {
		e.Err = urlErrorWrap(e.Request.Method, e.Request.URL.String(), err)
		return
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	e.Response = resp
	c.readBody(e)
}

func (c *Client) readBody(e *request.Execution) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	c.handlers.run(BeforeReadBody, e)
	b, err := io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(e.Request.Method, e.Request.URL.String(), err)
		return
	}
	e.Body = b
}

func (c *Client) sleep(p *request.Plan, e *request.Execution) error {
	timer := time.NewTimer(e.Wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-p.Context().Done():
		return c.abort(p, e, p.Context().Err())
	}
}

func (c *Client) abort(p *request.Plan, e *request.Execution, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		c.handlers.run(AfterPlanTimeout, e)
	}
	e.Err = urlErrorWrap(p.Method, p.URL(c.base).String(), err)
	return e.Err
}

// requestHeader merges the per-call plan headers with the client header
// set. The client header set wins on collision.
func (c *Client) requestHeader(p *request.Plan) http.Header {
	h := make(http.Header, len(p.Header)+len(c.header))
	for k, vv := range p.Header {
		h[k] = append([]string(nil), vv...)
	}
	for k, vv := range c.header {
		h[k] = append([]string(nil), vv...)
	}
	return h
}

func final(e *request.Execution, aborted error) error {
	if aborted != nil {
		return aborted
	}
	switch e.Outcome() {
	case request.Success:
		return nil
	case request.TransportFailure:
		return apierr.NewTransport(e.Err)
	default:
		return apierr.Classify(e.StatusCode(), e.Body)
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, apierr.NewValidation("server URL must not be empty")
	}
	raw = strings.TrimSuffix(raw, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &apierr.Error{Kind: apierr.Validation, Message: "invalid server URL", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apierr.NewValidation(fmt.Sprintf("server URL %q must use http or https", raw))
	}
	if u.Host == "" {
		return nil, apierr.NewValidation(fmt.Sprintf("server URL %q has no host", raw))
	}
	return u, nil
}

func buildHeader(custom map[string]string, userAgent string, signed *auth.SignedHeaders) (http.Header, error) {
	h := make(http.Header, len(custom)+4)
	for k, v := range custom {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, apierr.NewValidation(fmt.Sprintf("invalid header name %q", k))
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return nil, apierr.NewValidation(fmt.Sprintf("invalid value for header %q", k))
		}
		h.Set(k, v)
	}
	if !httpguts.ValidHeaderFieldValue(userAgent) {
		return nil, apierr.NewValidation("invalid user agent")
	}
	h.Set("User-Agent", userAgent)
	signed.Apply(h)
	return h, nil
}

func urlErrorWrap(method, u string, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: u,
		Err: err,
	}
}

// urlErrorOp mirrors urlErrorOp in net/http/client.go.
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
