package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func sdktraceWithProcessor(sp sdktrace.SpanProcessor) sdktrace.TracerProviderOption {
	return sdktrace.WithSpanProcessor(sp)
}

func serviceName(attrs []attribute.KeyValue) string {
	for _, kv := range attrs {
		if kv.Key == "service.name" {
			return kv.Value.AsString()
		}
	}
	return ""
}
