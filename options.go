// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reverso

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/metrics"
	"github.com/treehill/reverso/retry"
	"github.com/treehill/reverso/timeout"
)

// An Option configures a Translator.
type Option func(*options)

type options struct {
	timeout      time.Duration
	maxRetries   int
	base         time.Duration
	multiplier   float64
	max          time.Duration
	headers      map[string]string
	logger       *zerolog.Logger
	proxy        string
	doer         client.HTTPDoer
	app          *AppInfo
	platformInfo bool
	limiter      *rate.Limiter
	metrics      *metrics.Collector
	tracer       trace.Tracer
	clock        func() time.Time
}

func defaultOptions() options {
	return options{
		timeout:      timeout.DefaultTimeout,
		maxRetries:   retry.DefaultTimes,
		base:         retry.DefaultBase,
		multiplier:   retry.DefaultMultiplier,
		max:          retry.DefaultMax,
		platformInfo: true,
		clock:        time.Now,
	}
}

// WithTimeout sets the timeout of each physical attempt. The default is
// 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRetries sets the number of retries allowed after the initial
// attempt. Zero disables retrying. The default is 5.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithBackoff sets the exponential backoff parameters: the wait before
// retry n is base*multiplier^n, capped at max.
func WithBackoff(base time.Duration, multiplier float64, max time.Duration) Option {
	return func(o *options) {
		o.base, o.multiplier, o.max = base, multiplier, max
	}
}

// WithHeaders sets extra headers sent on every request. They never
// override User-Agent or the authentication headers.
func WithHeaders(h map[string]string) Option {
	return func(o *options) {
		o.headers = make(map[string]string, len(h))
		for k, v := range h {
			o.headers[k] = v
		}
	}
}

// WithLogger logs attempts, retries and call results to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithProxy routes requests through the proxy at rawURL. Schemes http,
// https, socks5 and socks5h are supported. It cannot be combined with
// WithHTTPDoer.
func WithProxy(rawURL string) Option {
	return func(o *options) { o.proxy = rawURL }
}

// WithHTTPDoer makes physical attempts with d instead of the default
// HTTP client.
func WithHTTPDoer(d client.HTTPDoer) Option {
	return func(o *options) { o.doer = d }
}

// WithAppInfo appends "name/version" to the User-Agent header.
func WithAppInfo(name, version string) Option {
	return func(o *options) { o.app = &AppInfo{Name: name, Version: version} }
}

// WithoutPlatformInfo omits the operating system, architecture and Go
// version from the User-Agent header.
func WithoutPlatformInfo() Option {
	return func(o *options) { o.platformInfo = false }
}

// WithRateLimit throttles physical attempts to limit per second with
// the given burst. Retries count against the limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) { o.limiter = rate.NewLimiter(limit, burst) }
}

// WithMetrics records Prometheus metrics in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithTracer records a span with tracer for every call.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithClock sets the function used to obtain the Created timestamp
// when the Translator is constructed.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

func (o *options) validate() error {
	switch {
	case o.timeout <= 0:
		return apierr.NewValidation(fmt.Sprintf("timeout must be positive, got %s", o.timeout))
	case o.maxRetries < 0:
		return apierr.NewValidation(fmt.Sprintf("max retries must not be negative, got %d", o.maxRetries))
	case o.base <= 0:
		return apierr.NewValidation("backoff base must be positive")
	case o.multiplier < 1 || math.IsNaN(o.multiplier) || math.IsInf(o.multiplier, 0):
		return apierr.NewValidation(fmt.Sprintf("backoff multiplier must be a finite number of at least 1, got %v", o.multiplier))
	case o.max < o.base:
		return apierr.NewValidation("backoff max must be at least base")
	case o.limiter != nil && o.limiter.Burst() < 1 && o.limiter.Limit() != rate.Inf:
		return apierr.NewValidation("rate limit burst must be at least 1")
	case o.clock == nil:
		return apierr.NewValidation("nil clock")
	}
	return nil
}
