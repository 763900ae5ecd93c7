package services

import "errors"

// Service errors. Store lookups surface catalog.ErrNotFound and
// catalog.ErrInvalidInput unchanged so handlers can map them.
var (
	ErrExportFailed = errors.New("export failed")
)
