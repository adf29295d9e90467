// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package auth builds the time-stamped HMAC signature headers which
// authenticate every request to the Reverso API.
//
// The signature is the lower-case hex HMAC-SHA1 of the username
// followed by the Created timestamp, keyed by the password:
//
//	h, err := auth.Sign(auth.Credentials{Username: "u", Password: "p"}, time.Now())
//	...
//	h.Apply(req.Header)
package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/treehill/reverso/apierr"
)

// Header names used by the Reverso API to authenticate a request.
const (
	HeaderCreated   = "Created"
	HeaderUsername  = "Username"
	HeaderSignature = "Signature"
)

// CreatedLayout is the time layout of the Created header value.
const CreatedLayout = "2006-01-02 15:04:05"

// Credentials identify an API account.
type Credentials struct {
	Username string
	Password string
}

// Validate returns a Validation error naming the empty fields, if any.
func (c Credentials) Validate() error {
	var fields []string
	if c.Username == "" {
		fields = append(fields, "username")
	}
	if c.Password == "" {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return apierr.NewValidation(strings.Join(fields, " and ") + " must be a non-empty string")
	}
	return nil
}

// String masks the password so Credentials are safe to print.
func (c Credentials) String() string {
	return "Credentials{Username: " + c.Username + ", Password: ***}"
}

// SignedHeaders holds the authentication header values computed for a
// fixed Created timestamp. A SignedHeaders is never modified after Sign
// returns it, so it may be shared by concurrent requests.
type SignedHeaders struct {
	Created   string
	Username  string
	Signature string
}

// Sign validates c and computes the signed headers for the timestamp
// created. No I/O is performed.
func Sign(c Credentials, created time.Time) (*SignedHeaders, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ts := FormatCreated(created)
	return &SignedHeaders{
		Created:   ts,
		Username:  c.Username,
		Signature: Signature(c.Username, ts, c.Password),
	}, nil
}

// FormatCreated formats t as a Created header value, in t's location.
func FormatCreated(t time.Time) string {
	return t.Format(CreatedLayout)
}

// Signature returns the lower-case hex HMAC-SHA1 of username+created
// keyed by password.
func Signature(username, created, password string) string {
	mac := hmac.New(sha1.New, []byte(password))
	mac.Write([]byte(username))
	mac.Write([]byte(created))
	return hex.EncodeToString(mac.Sum(nil))
}

// Apply sets the authentication headers on h, replacing any values
// already present under the same names.
func (s *SignedHeaders) Apply(h http.Header) {
	h.Set(HeaderCreated, s.Created)
	h.Set(HeaderUsername, s.Username)
	h.Set(HeaderSignature, s.Signature)
}
