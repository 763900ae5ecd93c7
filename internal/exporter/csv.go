package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"productapi/internal/catalog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func writeCSV(w io.Writer, records []catalog.Record, bom bool) error {
	// BOM helps Excel recognize UTF-8
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range records {
		row := []string{strconv.Itoa(r.ID), r.Name, formatPrice(r.Price)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
