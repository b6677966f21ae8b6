package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// RecapSheet describes a monthly attendance grid for export.
type RecapSheet struct {
	Title       string
	Subtitle    string
	DaysInMonth int
	Rows        []RecapRow
}

// RecapRow is one person's month: day number to status letter (blank when the
// day carried no obligation), plus per-status totals.
type RecapRow struct {
	Name   string
	Days   map[int]string
	Totals map[string]int
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRecap flattens a RecapSheet into CSV with one column per day.
func (e *CSVExporter) RenderRecap(data RecapSheet) ([]byte, error) {
	headers := make([]string, 0, data.DaysInMonth+5)
	headers = append(headers, "Nama")
	for day := 1; day <= data.DaysInMonth; day++ {
		headers = append(headers, fmt.Sprintf("%d", day))
	}
	headers = append(headers, "H", "I", "S", "A")

	rows := make([]map[string]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := map[string]string{"Nama": row.Name}
		for day := 1; day <= data.DaysInMonth; day++ {
			record[fmt.Sprintf("%d", day)] = row.Days[day]
		}
		record["H"] = fmt.Sprintf("%d", row.Totals["H"])
		record["I"] = fmt.Sprintf("%d", row.Totals["I"])
		record["S"] = fmt.Sprintf("%d", row.Totals["S"])
		record["A"] = fmt.Sprintf("%d", row.Totals["A"])
		rows = append(rows, record)
	}

	return e.Render(Dataset{Headers: headers, Rows: rows})
}
