// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes one logical call
against the Reverso API) and Execution (describes the state of a Plan
execution).

A Plan names the method, the path relative to the client's base URL,
query options, per-call headers, and a pre-buffered body. A logical call
may involve several physical attempts if a failed attempt is retried,
and each attempt sends exactly the same body bytes.

	p, err := request.NewPlan("POST", "/v1/TranslateText/direction=eng-fra", url.Values{"body": {"Hello"}})
	...
	e, err := cl.Execute(p)
	...

A plan may be assigned a context to allow the whole logical call to be
cancelled, including while the client waits to retry:

	p, err := request.NewPlanWithContext(ctx, "GET", "/v1/GetAllTranslationDirections", nil)
	...

A deadline on the plan context is separate from the per-attempt timeout
dictated by the client's timeout.Policy. An attempt which hits its own
timeout is a retryable transport failure; an attempt cut short by the
plan context ends the logical call.

Execution is both the output type of the client's Execute method and the
input type of timeout policies, retry policies, and event handlers. You
will typically not allocate Execution instances yourself.
*/
package request
