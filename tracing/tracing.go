// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tracing records an OpenTelemetry client span for every
// logical call, with one span event for each physical attempt.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/request"
	"github.com/treehill/reverso/transient"
)

// Attribute keys set on call spans and attempt events.
const (
	AttrMethod      = attribute.Key("http.request.method")
	AttrPath        = attribute.Key("url.path")
	AttrExecutionID = attribute.Key("reverso.execution_id")
	AttrAttempt     = attribute.Key("reverso.attempt")
	AttrStatusCode  = attribute.Key("http.response.status_code")
	AttrErrorType   = attribute.Key("error.type")
)

type spanKey struct{}

// Install pushes span handlers for tracer onto g. If tracer is nil, the
// tracer of the global provider is used.
//
// The span context of each call is propagated on every attempt using
// the global text map propagator.
func Install(g *client.HandlerGroup, tracer trace.Tracer) {
	if tracer == nil {
		tracer = otel.Tracer("github.com/treehill/reverso")
	}
	h := &handler{tracer: tracer}
	g.PushBack(client.BeforeExecutionStart, h)
	g.PushBack(client.BeforeAttempt, h)
	g.PushBack(client.AfterAttempt, h)
	g.PushBack(client.AfterExecutionEnd, h)
}

// SpanFromExecution returns the span recorded for e, or a no-op span
// if none was recorded.
func SpanFromExecution(e *request.Execution) trace.Span {
	if span, ok := e.Value(spanKey{}).(trace.Span); ok {
		return span
	}
	return trace.SpanFromContext(context.Background())
}

type handler struct {
	tracer trace.Tracer
}

func (h *handler) Handle(evt client.Event, e *request.Execution) {
	switch evt {
	case client.BeforeExecutionStart:
		_, span := h.tracer.Start(e.Plan.Context(), "reverso "+e.Plan.Method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				AttrMethod.String(e.Plan.Method),
				AttrPath.String(e.Plan.Path),
				AttrExecutionID.String(e.ID),
			),
		)
		e.SetValue(spanKey{}, span)
	case client.BeforeAttempt:
		span := SpanFromExecution(e)
		ctx := trace.ContextWithSpan(e.Request.Context(), span)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(e.Request.Header))
	case client.AfterAttempt:
		attrs := []attribute.KeyValue{AttrAttempt.Int(e.Attempt)}
		if e.Err != nil {
			attrs = append(attrs, AttrErrorType.String(transient.Categorize(e.Err).String()))
		} else {
			attrs = append(attrs, AttrStatusCode.Int(e.StatusCode()))
		}
		SpanFromExecution(e).AddEvent("attempt", trace.WithAttributes(attrs...))
	case client.AfterExecutionEnd:
		span := SpanFromExecution(e)
		if code := e.StatusCode(); code != 0 {
			span.SetAttributes(AttrStatusCode.Int(code))
		}
		if e.Final != nil {
			span.RecordError(e.Final)
			span.SetStatus(codes.Error, e.Final.Error())
		}
		span.End(trace.WithTimestamp(e.End))
	}
}
