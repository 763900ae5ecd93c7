// Package config provides centralized configuration management for the
// product API. It loads configuration from multiple sources, validates it,
// and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is layered in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PRODUCTAPI_<SECTION>_<FIELD>:
//
//	PRODUCTAPI_SERVER_PORT=5000
//	PRODUCTAPI_LOGGING_LEVEL=debug
//	PRODUCTAPI_CATALOG_ID_POLICY=strict
//	PRODUCTAPI_SECURITY_RATE_LIMIT_RPS=10
//
// PRODUCTAPI_CONFIG_FILE selects the YAML file explicitly; otherwise
// config.yaml and configs/config.yaml are tried in the working directory.
//
// # Testing
//
// Use Default() for a configuration that needs no environment or files.
package config
