package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is the tabular form every report renders to. Rows are keyed by
// header name so dataset builders can fill columns in any order.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders a Dataset into CSV bytes. Output starts with a UTF-8
// BOM so spreadsheet programs used by field staff pick up the encoding.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Render produces the CSV encoding of the dataset. Cells missing from a
// row are emitted empty rather than failing the export.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	cells := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			cells[i] = row[header]
		}
		if err := w.Write(cells); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
