// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/treehill/reverso/auth"
	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/retry"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, testCase := range testCases {
		l := New(testCase.level, false, io.Discard)
		assert.Equal(t, testCase.expected, l.GetLevel(), testCase.level)
	}

	var buf bytes.Buffer
	l := New("info", true, &buf)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, gjson.Valid(buf.String()))
}

type scriptedDoer struct {
	steps []func() (*http.Response, error)
	n     int
}

func (d *scriptedDoer) Do(*http.Request) (*http.Response, error) {
	step := d.steps[d.n]
	d.n++
	return step()
}

func respond(code int, body string) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body))}, nil
	}
}

func fail(err error) func() (*http.Response, error) {
	return func() (*http.Response, error) { return nil, err }
}

func newClient(t *testing.T, g *client.HandlerGroup, d client.HTTPDoer) *client.Client {
	cl, err := client.New(client.Config{
		BaseURL:     "https://api.test",
		Credentials: auth.Credentials{Username: "alice", Password: "s3cret"},
		HTTPDoer:    d,
		Handlers:    g,
		RetryPolicy: retry.Standard(2, retry.NewFixedWaiter(time.Millisecond)),
	})
	require.NoError(t, err)
	return cl
}

func lines(buf *bytes.Buffer) []gjson.Result {
	var out []gjson.Result
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line != "" {
			out = append(out, gjson.Parse(line))
		}
	}
	return out
}

func TestInstall(t *testing.T) {
	t.Run("retry then success", func(t *testing.T) {
		var buf bytes.Buffer
		g := &client.HandlerGroup{}
		Install(g, New("debug", false, &buf))
		cl := newClient(t, g, &scriptedDoer{steps: []func() (*http.Response, error){
			fail(syscall.ECONNRESET),
			respond(503, "busy"),
			respond(200, "ok"),
		}})

		e, err := cl.Do(context.Background(), "GET", "/v1/GetAllTranslationDirections", nil, nil)
		require.NoError(t, err)

		ls := lines(&buf)
		require.Len(t, ls, 6)
		assert.Equal(t, "attempt finished", ls[0].Get("message").String())
		assert.Equal(t, "info", ls[0].Get("level").String())
		assert.Equal(t, "conn_reset", ls[0].Get("reason").String())
		assert.NotEmpty(t, ls[0].Get("error").String())
		assert.Equal(t, "retrying after wait", ls[1].Get("message").String())
		assert.Equal(t, int64(0), ls[1].Get("attempt").Int())
		assert.Equal(t, int64(503), ls[2].Get("status").Int())
		assert.Equal(t, "retrying after wait", ls[3].Get("message").String())
		assert.Equal(t, "debug", ls[4].Get("level").String())
		assert.Equal(t, int64(200), ls[4].Get("status").Int())
		assert.Equal(t, "call finished", ls[5].Get("message").String())
		assert.Equal(t, int64(3), ls[5].Get("attempts").Int())
		for _, l := range ls {
			assert.Equal(t, e.ID, l.Get("execution_id").String())
			assert.Equal(t, "GET", l.Get("method").String())
			assert.Equal(t, "/v1/GetAllTranslationDirections", l.Get("path").String())
		}
		assert.NotContains(t, buf.String(), "s3cret")
		assert.NotContains(t, buf.String(), auth.HeaderSignature)
	})
	t.Run("final failure logged at warn", func(t *testing.T) {
		var buf bytes.Buffer
		g := &client.HandlerGroup{}
		Install(g, New("warn", false, &buf))
		cl := newClient(t, g, &scriptedDoer{steps: []func() (*http.Response, error){
			respond(404, ""),
		}})

		_, err := cl.Do(context.Background(), "GET", "/missing", nil, nil)
		require.Error(t, err)

		ls := lines(&buf)
		require.Len(t, ls, 1)
		assert.Equal(t, "warn", ls[0].Get("level").String())
		assert.Equal(t, "not found", ls[0].Get("kind").String())
		assert.Equal(t, "reverso: Not found, check server url", ls[0].Get("error").String())
	})
	t.Run("panicking sink", func(t *testing.T) {
		g := &client.HandlerGroup{}
		Install(g, New("debug", false, panicWriter{}))
		cl := newClient(t, g, &scriptedDoer{steps: []func() (*http.Response, error){
			respond(500, ""),
			respond(201, "created"),
		}})

		var e interface{ StatusCode() int }
		assert.NotPanics(t, func() {
			x, err := cl.Do(context.Background(), "PUT", "/x", nil, "body")
			assert.NoError(t, err)
			e = x
		})
		assert.Equal(t, 201, e.StatusCode())
	})
}

type panicWriter struct{}

func (panicWriter) Write([]byte) (int, error) {
	panic("log sink exploded")
}
