// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for the per-attempt timeout applied
// to each physical request within a logical call. An attempt which
// exceeds its timeout is reported as a transport failure and may be
// retried.
package timeout
