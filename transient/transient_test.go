// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, Not, Categorize(nil))
	assert.Equal(t, Not, Categorize(context.Canceled))
	assert.Equal(t, Not, Categorize(&url.Error{Err: context.Canceled}))
	assert.Equal(t, Network, Categorize(errors.New("foo")))
	assert.Equal(t, Network, Categorize(wrapper{}))
	assert.Equal(t, Network, Categorize(wrapper{errors.New("bar")}))
	assert.Equal(t, Network, Categorize(&net.OpError{Op: "dial", Err: errors.New("no route")}))
	assert.Equal(t, Timeout, Categorize(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Categorize(timeout{}))
	assert.Equal(t, Timeout, Categorize(context.DeadlineExceeded))
	assert.Equal(t, Timeout, Categorize(&url.Error{Err: syscall.ETIMEDOUT}))
	assert.Equal(t, Timeout, Categorize(&url.Error{Err: timeout{}}))
	assert.Equal(t, Timeout, Categorize(wrapper{&url.Error{Err: syscall.ETIMEDOUT}}))
	assert.Equal(t, Timeout, Categorize(wrapper{wrapper{timeout{}}}))
	assert.Equal(t, Timeout, Categorize(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, Timeout, Categorize(wrapper{timeoutWrapper{true, syscall.ECONNREFUSED}}))
	assert.Equal(t, Timeout, Categorize(&net.DNSError{Err: "i/o timeout", IsTimeout: true}))
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, Categorize(wrapper{syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(&url.Error{Err: io.EOF}))
	assert.Equal(t, ConnReset, Categorize(io.ErrUnexpectedEOF))
	assert.Equal(t, ConnRefused, Categorize(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, Categorize(wrapper{syscall.ECONNREFUSED}))
	assert.Equal(t, ConnRefused, Categorize(&url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}))
	assert.Equal(t, ConnRefused, Categorize(&url.Error{Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}))
	assert.Equal(t, DNS, Categorize(&url.Error{Err: &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}}}))
	assert.Equal(t, TLS, Categorize(&url.Error{Err: x509.UnknownAuthorityError{}}))
	assert.Equal(t, TLS, Categorize(wrapper{x509.HostnameError{Host: "foo"}}))
	assert.Equal(t, TLS, Categorize(tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}))
	assert.Equal(t, TLS, Categorize(&tls.CertificateVerificationError{Err: errors.New("expired")}))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "not", Not.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "conn_refused", ConnRefused.String())
	assert.Equal(t, "conn_reset", ConnReset.String())
	assert.Equal(t, "dns", DNS.String())
	assert.Equal(t, "tls", TLS.String())
	assert.Equal(t, "network", Network.String())
	assert.Equal(t, "unknown", Category(-1).String())
	assert.Equal(t, "unknown", Category(100).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (_ timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
