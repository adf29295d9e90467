// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reverso is a client for the Reverso translation API.

Create a Translator with the server URL and account credentials. No
network activity takes place until a method is called.

	t, err := reverso.New("https://api.reverso.net", "alice", "s3cret")
	...
	res, err := t.TranslateText(ctx, "Bonjour", "fra", "eng", nil)
	...
	fmt.Println(res.Text)

Every request is signed with the HMAC signature the API expects, is
subject to a per-attempt timeout, and is retried with capped
exponential backoff when the connection fails or the server answers
429 or 5xx. Errors are *apierr.Error values whose Kind identifies the
failure:

	var e *apierr.Error
	if errors.As(err, &e) && e.Kind == apierr.Authorization {
		...
	}

Behaviour is tuned with options:

	t, err := reverso.New(url, user, pass,
		reverso.WithTimeout(5*time.Second),
		reverso.WithMaxRetries(3),
		reverso.WithLogger(logging.New("debug", true, nil)),
		reverso.WithAppInfo("glossary", "1.2.0"))

Or loaded from a configuration file and REVERSO_ environment variables:

	cfg, err := config.Load("reverso.yaml")
	...
	t, err := reverso.NewFromConfig(cfg)

For full control over request plans, event handlers, and retry and
timeout policies, use package client directly.
*/
package reverso
