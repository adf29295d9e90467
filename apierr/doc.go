// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package apierr defines the error taxonomy surfaced by the reverso
// client and the classification of completed HTTP responses into it.
//
// Every terminal error returned by the client is an *Error and can be
// inspected either with errors.As, or with errors.Is against one of the
// sentinel values:
//
//	_, err := translator.TranslateText(ctx, "hello", "eng", "fra", nil)
//	if errors.Is(err, apierr.ErrTooManyRequests) {
//		...
//	}
package apierr
