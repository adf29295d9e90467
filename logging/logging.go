// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging builds zerolog loggers and installs client event
// handlers which log each attempt, each retry wait, and the end of each
// logical call.
//
// Request and response headers are never logged, since they carry the
// request signature.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/treehill/reverso/apierr"
	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/request"
	"github.com/treehill/reverso/transient"
)

// New creates a logger writing to w at the named level. Unknown or
// empty levels mean info. If pretty is true, output is formatted for
// human readability. A nil w means os.Stderr.
func New(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}
	return l.Level(zLevel)
}

// Install pushes logging handlers for l onto g. A panic raised while
// writing a log line is recovered and discarded.
func Install(g *client.HandlerGroup, l zerolog.Logger) {
	h := &handler{log: l}
	g.PushBack(client.AfterAttempt, h)
	g.PushBack(client.BeforeWait, h)
	g.PushBack(client.AfterExecutionEnd, h)
}

type handler struct {
	log zerolog.Logger
}

func (h *handler) Handle(evt client.Event, e *request.Execution) {
	defer func() {
		_ = recover()
	}()

	switch evt {
	case client.AfterAttempt:
		h.attempt(e)
	case client.BeforeWait:
		h.with(h.log.Info(), e).
			Int("attempt", e.Attempt).
			Dur("wait", e.Wait).
			Msg("retrying after wait")
	case client.AfterExecutionEnd:
		h.end(e)
	}
}

func (h *handler) attempt(e *request.Execution) {
	var ev *zerolog.Event
	switch e.Outcome() {
	case request.Success:
		ev = h.log.Debug().Int("status", e.StatusCode())
	case request.HTTPError:
		ev = h.log.Info().Int("status", e.StatusCode())
	default:
		ev = h.log.Info().
			Str("reason", transient.Categorize(e.Err).String()).
			Err(e.Err)
	}
	h.with(ev, e).
		Int("attempt", e.Attempt).
		Dur("elapsed", e.Duration()).
		Msg("attempt finished")
}

func (h *handler) end(e *request.Execution) {
	ev := h.log.Debug()
	if e.Final != nil {
		ev = h.log.Warn().Err(e.Final)
		if kind, ok := apierr.KindOf(e.Final); ok {
			ev = ev.Str("kind", kind.String())
		}
	}
	h.with(ev, e).
		Int("attempts", e.Attempt+1).
		Dur("elapsed", e.Duration()).
		Msg("call finished")
}

func (h *handler) with(ev *zerolog.Event, e *request.Execution) *zerolog.Event {
	ev = ev.Str("execution_id", e.ID)
	if e.Plan != nil {
		ev = ev.Str("method", e.Plan.Method).Str("path", e.Plan.Path)
	}
	return ev
}
