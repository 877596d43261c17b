package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "commonui"

	// EnvPrefix namespaces every environment variable, e.g. COMMONUI_SERVER_PORT
	EnvPrefix = "COMMONUI"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Request handling
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 32 << 20 // 32MB

	// File Paths (relative to executable)
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/app.log"
	DefaultExportsDir = "exports"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Export Settings
	DefaultSheetName    = "Data"
	DefaultExportFormat = "xlsx"
	MaxSheetNameLength  = 31

	// DefaultDateLayout renders dates as 2024-03-05 14:07 PM
	DefaultDateLayout = "2006-01-02 15:04 PM"
)
