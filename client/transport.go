// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package client

import (
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"

	"github.com/treehill/reverso/apierr"
)

// newHTTPDoer builds the default HTTPDoer: an http.Client over a clone
// of http.DefaultTransport, routed through rawProxy when it is set.
//
// HTTP and HTTPS proxies are handled by the transport itself. SOCKS5
// proxies replace the transport's dialer.
func newHTTPDoer(rawProxy string) (*http.Client, error) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if rawProxy != "" {
		if err := applyProxy(t, rawProxy); err != nil {
			return nil, err
		}
	}
	return &http.Client{Transport: t}, nil
}

func applyProxy(t *http.Transport, rawProxy string) error {
	u, err := url.Parse(rawProxy)
	if err != nil {
		return &apierr.Error{Kind: apierr.Validation, Message: "invalid proxy URL", Err: err}
	}
	if u.Host == "" {
		return apierr.NewValidation(fmt.Sprintf("proxy URL %q has no host", u.Redacted()))
	}

	switch u.Scheme {
	case "http", "https":
		t.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return &apierr.Error{Kind: apierr.Validation, Message: "invalid proxy URL", Err: err}
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return apierr.NewValidation(fmt.Sprintf("proxy scheme %q does not support contexts", u.Scheme))
		}
		t.Proxy = nil
		t.DialContext = cd.DialContext
		return nil
	default:
		return apierr.NewValidation(fmt.Sprintf("unsupported proxy scheme %q", u.Scheme))
	}
}
