package exporter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"productapi/internal/catalog"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SheetName is the worksheet holding the rows of an xlsx export
const SheetName = "Products"

// Headers is the first row of every export
var Headers = []string{"ID", "Name", "Price"}

// ErrUnsupportedFormat is returned for formats other than xlsx and csv
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a query value onto a Format. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type served for f
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the file extension for f, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders records to w in format f
func Write(w io.Writer, f Format, records []catalog.Record) error {
	switch f {
	case FormatXLSX:
		return writeWorkbook(w, records)
	case FormatCSV:
		return writeCSV(w, records, true)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// formatPrice formats a price with exactly 2 decimal places
func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
