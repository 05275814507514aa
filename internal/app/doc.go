// Package app wires the dashboard together and manages its lifecycle.
//
// New loads nothing eagerly: it builds telemetry, the dataset service and
// the router from a Config, and the first request triggers the load of the
// disclosure file. Run serves until the context is cancelled or the process
// receives SIGINT/SIGTERM, then shuts the server and telemetry down within
// Server.ShutdownTimeout.
//
//	cfg, err := config.Load("")
//	...
//	application, err := app.New(cfg, logger)
//	...
//	return application.Run(ctx)
package app
