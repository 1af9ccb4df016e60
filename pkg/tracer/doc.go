// Package tracer provides distributed tracing using OpenTelemetry.
//
// Spans are exported over OTLP/HTTP when EnableExport is set; otherwise the
// provider still creates spans so that trace IDs show up in logs.
//
//	t := tracer.NewClient(tracer.Config{ServiceName: "facesearch", AppEnv: "dev"}, log)
//	ctx, span := t.StartSpan(ctx, "facesearch.find")
//	defer span.End()
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
package tracer
