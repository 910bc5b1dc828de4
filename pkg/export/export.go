// Package export renders read-only process snapshots as CSV or PDF. It never
// feeds anything back into the core — exports are presentation only.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Table is one titled section of an export: a header row plus data rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// CSV renders the tables as one CSV document, sections separated by a blank
// line with the section title as a single-cell row.
func CSV(tables []Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	for i, table := range tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("table %q has no headers", table.Title)
		}
		if i > 0 {
			if err := w.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		if table.Title != "" {
			if err := w.Write([]string{table.Title}); err != nil {
				return nil, fmt.Errorf("write csv title: %w", err)
			}
		}
		if err := w.Write(table.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range table.Rows {
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the tables as a simple A4 dossier with one section per table.
func PDF(title string, tables []Table) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, table := range tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("table %q has no headers", table.Title)
		}

		if table.Title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, table.Title, "", 1, "L", false, 0, "")
		}

		colWidth := 190.0 / float64(len(table.Headers))
		pdf.SetFont("Arial", "B", 9)
		for _, h := range table.Headers {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range table.Rows {
			for i := range table.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
