package api

import "time"

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ExportSummary describes a finished export. It is logged and returned by the
// CLI; the HTTP endpoint returns the document itself.
type ExportSummary struct {
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	Bytes       int    `json:"bytes"`
}
