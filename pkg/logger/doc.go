// Package logger provides structured logging for the facesearch service.
//
// It wraps Uber's Zap with a small, fixed API: every call takes a message,
// an optional error and optional maps of structured fields.
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "facesearch"})
//	log.Info("indexed image", nil, map[string]interface{}{
//		"label":    "alice",
//		"database": "Qdrant",
//	})
//
// The *WithContext variants add the OpenTelemetry trace_id and span_id of
// the active span when tracing is enabled.
//
// In an fx application, supply a logger.Config and include FXModule:
//
//	app := fx.New(
//		fx.Supply(logger.Config{Level: logger.Debug}),
//		logger.FXModule,
//	)
package logger
