package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

const utf8BOM = "\xEF\xBB\xBF"

// CSVExporter renders documents as spreadsheet friendly CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType implements Renderer.
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implements Renderer.
func (e *CSVExporter) Extension() string { return "csv" }

// Inline implements Renderer.
func (e *CSVExporter) Inline() bool { return false }

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := e.Write(buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the document to w: BOM, title, generation time, optional
// summary block, then the detail table.
func (e *CSVExporter) Write(w io.Writer, doc Document) error {
	if len(doc.Headers) == 0 {
		return fmt.Errorf("csv requires at least one header")
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write csv bom: %w", err)
	}

	writer := csv.NewWriter(w)
	records := [][]string{
		{doc.Title},
		{"Generated on: " + formatGeneratedAt(doc.GeneratedAt)},
		{},
	}
	if len(doc.Summary) > 0 {
		records = append(records, []string{"Summary Statistics"})
		for _, item := range doc.Summary {
			records = append(records, []string{Humanize(item.Key), item.Value})
		}
		records = append(records, []string{})
	}
	records = append(records, []string{"Detailed data"}, doc.Headers)

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv preamble: %w", err)
		}
	}
	for _, row := range doc.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
