// Package app wires the product API together and owns its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, PRODUCTAPI_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Seed the product store and start the chat hub
//	4. Build the catalog and health services
//	5. Assemble the router and the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(webFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests, closes
// every chat connection and flushes telemetry. Errors are returned to the
// caller; the package never calls os.Exit.
package app
