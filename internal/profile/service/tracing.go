package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	id "residentportal/pkg/domain"
)

const (
	traceScope = "residentportal.profile"

	spanSubmit   = "profile.submit"
	spanSyncPass = "profile.sync.pass"

	attrResidentID = "residentportal.resident_id"
	attrStatus     = "residentportal.status"
	attrSessions   = "residentportal.sessions"
)

func startSpan(ctx context.Context, name string, residentID id.ResidentID, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	if !residentID.IsNil() {
		spanAttrs = append(spanAttrs, attribute.String(attrResidentID, residentID.String()))
	}
	spanAttrs = append(spanAttrs, attrs...)
	return otel.Tracer(traceScope).Start(ctx, name, trace.WithAttributes(spanAttrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
