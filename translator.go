// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reverso

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"golang.org/x/time/rate"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/auth"
	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/config"
	"github.com/treehill/reverso/logging"
	"github.com/treehill/reverso/retry"
	"github.com/treehill/reverso/timeout"
	"github.com/treehill/reverso/tracing"
)

// Version is the library version sent in the User-Agent header.
const Version = "1.0.0"

// API paths.
const (
	translateTextPath = "/v1/TranslateText/direction="
	translateHTMLPath = "/v1/TranslateHtml/direction="
	directionsPath    = "/v1/GetAllTranslationDirections"
)

// A Translator wraps the Reverso translation API. It is safe for
// concurrent use by multiple goroutines.
type Translator struct {
	client *client.Client
}

// New returns a Translator for the server at serverURL, signing every
// request with username and password. It does not connect to the
// server. Invalid arguments or options are reported as an
// *apierr.Error of kind Validation.
func New(serverURL, username, password string, opts ...Option) (*Translator, error) {
	creds := auth.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	g := &client.HandlerGroup{}
	if o.logger != nil {
		logging.Install(g, *o.logger)
	}
	if o.metrics != nil {
		o.metrics.Install(g)
	}
	if o.tracer != nil {
		tracing.Install(g, o.tracer)
	}

	cl, err := client.New(client.Config{
		BaseURL:       serverURL,
		Credentials:   creds,
		Created:       o.clock(),
		UserAgent:     userAgent(o.platformInfo, o.app),
		Headers:       o.headers,
		HTTPDoer:      o.doer,
		Proxy:         o.proxy,
		RetryPolicy:   retry.Standard(o.maxRetries, retry.NewExpWaiter(o.base, o.multiplier, o.max)),
		TimeoutPolicy: timeout.Fixed(o.timeout),
		Handlers:      g,
		Limiter:       o.limiter,
	})
	if err != nil {
		return nil, err
	}
	return &Translator{client: cl}, nil
}

// NewFromConfig returns a Translator configured by cfg. Options in opts
// are applied after those derived from cfg, so they take precedence.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Translator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	base := []Option{
		WithTimeout(cfg.Timeout),
		WithMaxRetries(cfg.MaxRetries),
		WithBackoff(cfg.Backoff.Base, cfg.Backoff.Multiplier, cfg.Backoff.Max),
		WithLogger(logging.New(cfg.Log.Level, cfg.Log.Pretty, nil)),
	}
	if len(cfg.Headers) > 0 {
		base = append(base, WithHeaders(cfg.Headers))
	}
	if cfg.Proxy != "" {
		base = append(base, WithProxy(cfg.Proxy))
	}
	if cfg.App.Name != "" {
		base = append(base, WithAppInfo(cfg.App.Name, cfg.App.Version))
	}
	if !cfg.PlatformInfo {
		base = append(base, WithoutPlatformInfo())
	}
	if cfg.Rate.Limit > 0 {
		base = append(base, WithRateLimit(rate.Limit(cfg.Rate.Limit), cfg.Rate.Burst))
	}
	return New(cfg.URL, cfg.Username, cfg.Password, append(base, opts...)...)
}

// Client returns the underlying request client.
func (t *Translator) Client() *client.Client {
	return t.client
}

// CloseIdleConnections closes idle keep-alive connections held by the
// underlying HTTP client, if it supports doing so.
func (t *Translator) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

// TranslateText translates text from the source language into the
// target language. Language codes are sent as given; an empty source
// asks the server to detect the language. Extra query options, if any,
// are encoded onto the request URL.
func (t *Translator) TranslateText(ctx context.Context, text, source, target string, opts url.Values) (*TextResult, error) {
	var resp textResponse
	if err := t.translate(ctx, translateTextPath, text, source, target, opts, &resp); err != nil {
		return nil, err
	}
	return &TextResult{Text: resp.TranslatedText, Truncated: resp.Truncated, WordsLeft: resp.WordsLeft}, nil
}

// TranslateHTML translates an HTML document like TranslateText. The
// document travels base64-encoded in both directions; the result holds
// the decoded translation.
func (t *Translator) TranslateHTML(ctx context.Context, html, source, target string, opts url.Values) (*TextResult, error) {
	var resp textResponse
	encoded := base64.StdEncoding.EncodeToString([]byte(html))
	if err := t.translate(ctx, translateHTMLPath, encoded, source, target, opts, &resp); err != nil {
		return nil, err
	}
	decoded, err := base64.StdEncoding.DecodeString(resp.TranslatedText)
	if err != nil {
		return nil, apierr.NewInvalidContent(err, []byte(resp.TranslatedText))
	}
	return &TextResult{Text: string(decoded), Truncated: resp.Truncated, WordsLeft: resp.WordsLeft}, nil
}

// SourceLanguages returns the languages that can be translated from.
func (t *Translator) SourceLanguages(ctx context.Context) ([]Language, error) {
	return t.Languages(ctx, false)
}

// TargetLanguages returns the languages that can be translated into.
func (t *Translator) TargetLanguages(ctx context.Context) ([]Language, error) {
	return t.Languages(ctx, true)
}

// Languages returns the target languages if target is true, and the
// source languages otherwise. Each language appears once, in the order
// the server first lists it.
func (t *Translator) Languages(ctx context.Context, target bool) ([]Language, error) {
	var resp directionsResponse
	if err := t.call(ctx, http.MethodGet, directionsPath, nil, nil, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resp.Directions))
	langs := make([]Language, 0, len(resp.Directions))
	for _, d := range resp.Directions {
		code := d.Source
		if target {
			code = d.Target
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		langs = append(langs, Language{Code: code})
	}
	return langs, nil
}

func (t *Translator) translate(ctx context.Context, path, body, source, target string, opts url.Values, v interface{}) error {
	if target == "" {
		return apierr.NewValidation("target language must not be empty")
	}
	path += url.PathEscape(source) + "-" + url.PathEscape(target)
	return t.call(ctx, http.MethodPost, path, opts, url.Values{"body": {body}}, v)
}

// call executes one logical call and decodes its body into v.
func (t *Translator) call(ctx context.Context, method, path string, query url.Values, body interface{}, v interface{}) error {
	e, err := t.client.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(e.Body, v); err != nil {
		return apierr.NewInvalidContent(err, e.Body)
	}
	return nil
}

func userAgent(platformInfo bool, app *AppInfo) string {
	var b strings.Builder
	b.WriteString("reverso-go/")
	b.WriteString(Version)
	if platformInfo {
		b.WriteString(" (")
		b.WriteString(runtime.GOOS)
		b.WriteByte(' ')
		b.WriteString(runtime.GOARCH)
		b.WriteString(") go/")
		b.WriteString(strings.TrimPrefix(runtime.Version(), "go"))
	}
	if app != nil {
		b.WriteByte(' ')
		b.WriteString(app.Name)
		b.WriteByte('/')
		b.WriteString(app.Version)
	}
	return b.String()
}
