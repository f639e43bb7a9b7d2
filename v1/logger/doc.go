// Package logger provides structured logging for vevtor components.
//
// It wraps Uber's zap with a small, uniform API: every method takes a
// message, an optional error and optional maps of structured fields.
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Debug})
//	log.Info("Batch dispatched", nil, map[string]interface{}{
//		"collection": "files",
//		"size":       32,
//	})
//
// Packages that log declare their own Logger interface with the same method
// set, so *Logger can be passed anywhere and tests can substitute a mock.
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "indexer"}
//		}),
//	)
//
// The module syncs the logger when the application stops.
package logger
