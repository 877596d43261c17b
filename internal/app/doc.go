// Package app wires the export server together.
//
// New takes a loaded configuration and builds every component in order:
//
//  1. resolve and create the logs and exports directories
//  2. initialize OpenTelemetry (Prometheus metrics, optional stdout tracing)
//  3. build the resolver, title caser, export and health services
//  4. assemble the chi router and its middleware chain
//  5. create the http.Server from the server settings
//
// Routes:
//
//	POST /export, POST /api/export   table data → XLSX or CSV download
//	GET  /api/health[/ready|/live]   health probes
//	GET  /api/version                build information
//	GET  /api/navigation             breadcrumb links from the UI settings
//	GET  /metrics                    Prometheus exposition (when metrics are enabled)
//
// Run serves until the context is cancelled or the process is interrupted,
// then shuts the server and the telemetry providers down within the
// configured shutdown timeout.
package app
