// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes the transport failures of individual
// request attempts: timeouts, refused or reset connections, DNS and TLS
// failures, and other network errors.
//
// Every transport failure is retryable from the reverso client's point
// of view; the category exists to give log lines and metrics a
// low-cardinality reason. Cancellation of the caller's context is the
// only non-nil error that is not a transport failure.
package transient
