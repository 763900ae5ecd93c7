package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"productapi/internal/app"
	"productapi/internal/infrastructure"
)

// Embedded page templates and static assets
//
//go:embed all:web
var webFiles embed.FS

func main() {
	application, err := app.NewApplication(webFS())
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = application.Run()
	_ = infrastructure.CloseLogFile()
	if err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// webFS returns the embedded web directory, or nil when it is missing
func webFS() fs.FS {
	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		slog.Warn("Web assets embedding failed", slog.String("error", err.Error()))
		return nil
	}
	return sub
}
