// Package config provides centralized configuration management for commonui.
// It loads settings from defaults, an optional YAML file and the environment,
// validates them, and exposes them as a typed Config.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// The file is taken from COMMONUI_CONFIG_FILE, or else the first of
// config.yaml and configs/config.yaml that exists.
//
// # Environment Variables
//
// All environment variables follow the pattern COMMONUI_<SECTION>_<KEY>:
//
//	COMMONUI_SERVER_PORT=8080
//	COMMONUI_LOGGING_LEVEL=debug
//	COMMONUI_UI_STRIP_FIRST_WORD=orderDate,orderTotal
//	COMMONUI_UI_NAV_URLS=home:/,orders:/orders
//	COMMONUI_EXPORT_MAX_ROWS=100000
//	COMMONUI_RESOLVER_DATE_LAYOUT="2006-01-02 15:04 PM"
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a valid configuration that needs no environment
// variables or files.
package config
