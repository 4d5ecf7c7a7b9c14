// Package services provides the façade over the projectboard API clients.
//
// Callers obtain the auth, project and dashboard clients from one
// Registry instead of wiring each client themselves:
//
//	reg, err := services.New(cfg, logger, tel.Tracer("projectboard"))
//	res := reg.Projects().GetMyProjectsSafe(ctx, params)
//
// Tests build a Registry from fakes with NewRegistry(Options{...}).
package services
