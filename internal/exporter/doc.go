// Package exporter renders product listings as downloadable files.
//
// Two formats are supported: an xlsx workbook with a single "Products" sheet,
// and CSV with an optional UTF-8 BOM so spreadsheet tools detect the
// encoding. Both start with the same header row:
//
//	var buf bytes.Buffer
//	err := exporter.Write(&buf, exporter.FormatCSV, records)
package exporter
