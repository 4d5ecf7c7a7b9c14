// Package logging provides structured logging for projectboard.
//
// It wraps Zap with:
//   - A Trace level (-2, below Debug)
//   - stderr, rotating file (lumberjack) and OpenTelemetry outputs
//   - Context field injection (trace_id, span_id, request.id)
//   - Secret redaction at the encoder
//   - Level-aware sampling (errors are never sampled)
//
// The terminal UI owns stdout, so interactive runs log to a file:
//
//	cfg := logging.NewDefaultConfig()
//	cfg.Output.Stderr = false
//	cfg.Output.File.Path = "~/.config/projectboard/projectboard.log"
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info(ctx, "projects fetched", zap.Int("page", 1))
//
// Tests use NewTestLogger, which records entries through zaptest/observer.
package logging
