package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application service spans.
const TracerName = "github.com/lojinha/backend"

// Span attribute keys used by application services.
const (
	SpanAttrUserID    = "user.id"
	SpanAttrProductID = "product.id"
	SpanAttrItemID    = "cart.item_id"
	SpanAttrQuantity  = "cart.quantity"
	SpanAttrSort      = "catalog.sort"
	SpanAttrPage      = "catalog.page"
	SpanAttrEntries   = "cart.merge.entries"
)

// StartServiceSpan starts an internal span named "<service>.<method>".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
//		attribute.String(telemetry.SpanAttrProductID, id.String()))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err on span, if any, and ends it. Intended for defer with a
// named error result.
func End(span trace.Span, err *error) {
	if err != nil {
		RecordError(span, *err)
	}
	span.End()
}
