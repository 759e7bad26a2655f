package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/document"
)

// CSVParser handles CSV files. Each data row becomes one line of
// "header: cell" pairs so searches can match on column names.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Extraction, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	ext := &document.Extraction{
		PageCount: 1,
		Info:      map[string]any{"Title": trimExt(filename, ".csv")},
		Metadata:  map[string]any{"format": "csv", "rows": 0, "columns": 0},
	}
	if len(records) == 0 {
		return ext, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var text strings.Builder
	text.WriteString("Headers: " + strings.Join(headers, ", "))
	for _, row := range dataRows {
		text.WriteString("\n")
		for j, cell := range row {
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
			if j < len(row)-1 {
				text.WriteString(", ")
			}
		}
	}

	ext.Text = text.String()
	ext.Metadata["rows"] = len(dataRows)
	ext.Metadata["columns"] = len(headers)
	return ext, nil
}
