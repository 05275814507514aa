// Package services implements the business logic layer between the HTTP and
// CLI surfaces and the data pipeline.
//
// # Available Services
//
//   - DatasetService: caches the normalized disclosure table and serves
//     filtered views, filter options, summaries and exports
//   - HealthService: liveness, readiness and version information
//
// # Caching
//
// DatasetService reads its Source at most once per cache window. A TTL of
// zero keeps the table for the process lifetime. Concurrent cache misses are
// coalesced with singleflight and the normalized table is published through
// an atomic pointer, so readers never wait on each other:
//
//	svc, err := services.NewDatasetService(services.DatasetServiceConfig{
//	    Source: services.NewSource(cfg.Pipeline.DataFile, cfg.Pipeline.DataPattern),
//	    TTL:    cfg.Pipeline.CacheTTL,
//	}, logger)
//	view, err := svc.Query(ctx, selection)
//
// # Error Handling
//
// Load failures surface as LOAD application errors, export failures as
// EXPORT errors and bad scopes as VALIDATION errors; the transport layer maps
// them onto problem responses.
package services
