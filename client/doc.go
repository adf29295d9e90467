// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package client executes authenticated, retried calls against a Reverso
API server.

Create a Client once and reuse it:

	cl, err := client.New(client.Config{
		BaseURL:     "https://api.reverso.net",
		Credentials: auth.Credentials{Username: "alice", Password: "s3cret"},
	})
	...
	e, err := cl.Do(ctx, "GET", "/v1/GetAllTranslationDirections", nil, nil)

Every physical attempt carries the Created, Username and Signature
headers computed once at construction. Attempts which fail in the
transport, or receive status 429 or any 5xx status, are retried
according to the RetryPolicy; any other status is final. The returned
error is an *apierr.Error describing the final outcome.

For control over retry decisions and timing, build a policy with
package retry:

	cl, err := client.New(client.Config{
		...
		RetryPolicy: retry.Standard(3, retry.NewExpWaiter(500*time.Millisecond, 2, 10*time.Second)),
	})

To hook into the attempt loop, install handlers into the appropriate
chain of a HandlerGroup before constructing the Client:

	handlers := &client.HandlerGroup{}
	handlers.PushBack(client.AfterAttempt, client.HandlerFunc(
		func(_ client.Event, e *request.Execution) {
			log.Printf("attempt %d: %s", e.Attempt, e.Outcome())
		}))

Packages logging, metrics and tracing provide ready-made handlers.
*/
package client
