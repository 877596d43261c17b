// Package http implements the HTTP handlers of the table export service.
//
// Handlers only deal with HTTP concerns: decoding and validating the request,
// calling a service and writing the response. Failures are passed to
// errors.ErrorHandler, which renders RFC 7807 problem details.
//
// Routes:
//
//	POST /export, /api/export   table payload in, XLSX or CSV attachment out
//	GET  /api/health            service status
//	GET  /api/health/ready      readiness checks, 503 when one fails
//	GET  /api/health/live       liveness
//	GET  /api/version           version and runtime information
package http
