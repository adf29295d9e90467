// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"net/url"
	"sort"
)

var errBodyType = errors.New("reverso/request: unsupported body type " +
	"(use nil, string, []byte, url.Values, map[string]string or io.Reader)")

// BodyBytes buffers a request body so that every attempt of a logical
// call sends the same bytes.
//
// Strings and byte slices are used as they are. Form values, given as
// url.Values or map[string]string, are URL-encoded with keys sorted.
// A reader is drained, and closed if it is also an io.Closer; a read
// error takes precedence over a close error. Nil yields a nil slice.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case url.Values:
		return []byte(x.Encode()), nil
	case map[string]string:
		return []byte(formValues(x).Encode()), nil
	case io.Reader:
		return drain(x)
	default:
		return nil, errBodyType
	}
}

// IsForm reports whether body is one of the form value types accepted
// by BodyBytes.
func IsForm(body interface{}) bool {
	switch body.(type) {
	case url.Values, map[string]string:
		return true
	}
	return false
}

func formValues(m map[string]string) url.Values {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := make(url.Values, len(m))
	for _, k := range keys {
		v.Set(k, m[k])
	}
	return v
}

func drain(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if c, ok := r.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
