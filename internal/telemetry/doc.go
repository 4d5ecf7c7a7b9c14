// Package telemetry provides OpenTelemetry tracing for projectboard.
//
// Tracing is off by default. When enabled, spans for every Project
// Service call are exported over OTLP/HTTP. Failures to build the exporter
// never stop the program; the instance reports itself degraded and falls
// back to the global no-op tracer.
package telemetry
