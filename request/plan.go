// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "reverso/request: nil context"

	formContentType = "application/x-www-form-urlencoded"
)

// A Plan describes one logical call against the Reverso API: the
// method, the path relative to the client's base URL, query options,
// per-call headers, and a pre-buffered body.
//
// A logical call may result in several physical request attempts if a
// failed attempt needs to be retried. Because the body is pre-buffered,
// every attempt sends exactly the same bytes.
//
// Like http.Request, a Plan has a context which controls the overall
// execution and can be used to cancel it at any time, including while
// the client is waiting to retry.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// Path is the request path, relative to the client's base URL.
	// It is always empty or begins with a slash. Path segments such as
	// "direction=eng-fra" are sent as-is.
	Path string

	// Query holds the query options to encode onto the request URL.
	Query urlpkg.Values

	// Header contains per-call request headers, for example
	// Content-Type. The client's own headers (user agent, custom
	// headers, and the signed authentication headers) are written over
	// these when the request is sent.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// ctx allows the entire Plan exec to be cancelled. It should only
	// be modified by copying the whole Plan using WithContext.
	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, path string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, path, body)
}

// NewPlanWithContext returns a new Plan given a method, a path relative
// to the client base URL, and an optional body.
//
// The path may carry a query string, which is parsed into the Query
// field. An absolute URL is rejected.
//
// Parameter body may be nil (empty body), or it may be any type
// accepted by BodyBytes. If body holds form values, the Content-Type
// header is set to application/x-www-form-urlencoded.
func NewPlanWithContext(ctx context.Context, method, path string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("reverso/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(path)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() || u.Host != "" {
		return nil, fmt.Errorf("reverso/request: path %q must be relative", path)
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		ctx:    ctx,
		Method: method,
		Path:   leadingSlash(u.Path),
		Query:  u.Query(),
		Header: make(http.Header),
		Body:   b,
	}
	if IsForm(body) {
		p.Header.Set("Content-Type", formContentType)
	}
	return p, nil
}

// Context returns the request plan's context. The context controls
// cancellation of the overall request plan. To change the context, use
// WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
//
// The context controls the entire lifetime of the logical call: making
// individual request attempts, running event handlers, and waiting for
// a retry wait period to expire.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// URL returns the absolute request URL obtained by appending the plan
// path to base and encoding the plan's query options after any query
// already present on base.
func (p *Plan) URL(base *urlpkg.URL) *urlpkg.URL {
	u := *base
	u.Path = base.Path + p.Path
	u.RawPath = ""
	q := base.Query()
	for k, vv := range p.Query {
		for _, v := range vv {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u
}

// ToRequest creates an HTTP request for one attempt of the plan. The
// request targets u, carries header unmodified, and has a fresh body
// reader over the pre-buffered body. The context of the new request is
// set to ctx, which may not be nil.
func (p *Plan) ToRequest(ctx context.Context, u *urlpkg.URL, header http.Header) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	r.URL = u
	r.Host = u.Host
	r.Header = header
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	return r
}

// validMethod reports whether method is an RFC 7230 token. Header field
// names follow the same token grammar.
func validMethod(method string) bool {
	return httpguts.ValidHeaderFieldName(method)
}

func leadingSlash(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
