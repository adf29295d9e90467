// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/request"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client. It performs exactly one physical
// attempt per call.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects) configured on the HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// Doer is the interface that wraps the basic Execute method.
//
// Execute runs a logical call described by a request plan and returns
// the final execution state, and an error if the call did not succeed.
// Client implements Doer.
type Doer interface {
	Execute(p *request.Plan) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the Execute and
// CloseIdleConnections methods.
type Executor interface {
	Doer
	IdleCloser
}

// Get uses d to issue a GET to path, relative to the base URL of d,
// with the given query options.
func Get(ctx context.Context, d Doer, path string, query url.Values) (*request.Execution, error) {
	p, err := request.NewPlanWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, invalidPlan(err)
	}
	addQuery(p, query)
	return d.Execute(p)
}

// PostForm uses d to issue a POST to path, relative to the base URL of
// d, with form's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(ctx context.Context, d Doer, path string, form url.Values) (*request.Execution, error) {
	if form == nil {
		form = url.Values{}
	}
	p, err := request.NewPlanWithContext(ctx, http.MethodPost, path, form)
	if err != nil {
		return nil, invalidPlan(err)
	}
	return d.Execute(p)
}

func addQuery(p *request.Plan, query url.Values) {
	for k, vv := range query {
		for _, v := range vv {
			p.Query.Add(k, v)
		}
	}
}

func invalidPlan(err error) error {
	return &apierr.Error{Kind: apierr.Validation, Message: "invalid request", Err: err}
}
