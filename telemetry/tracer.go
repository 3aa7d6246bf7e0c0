package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "github.com/ghgc/bearerauth"

// DefaultTracer returns a tracer from the global OpenTelemetry provider.
// It is a no-op until the application installs a provider.
func DefaultTracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Result is the label value used for outcome counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
