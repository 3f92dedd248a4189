package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const TraceparentHeader = "traceparent"

// HeaderSetter is satisfied by *fasthttp.RequestHeader and http.Header.
type HeaderSetter interface {
	Set(key, value string)
}

// InjectHTTPHeaders writes the trace context of ctx into outgoing headers.
func InjectHTTPHeaders(ctx context.Context, h HeaderSetter) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for k, v := range carrier {
		h.Set(k, v)
	}
}

// Traceparent returns the W3C traceparent for ctx, or "" without a span.
func Traceparent(ctx context.Context) string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier[TraceparentHeader]
}
