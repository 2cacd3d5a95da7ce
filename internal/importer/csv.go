package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/marker"
)

// CSVImporter handles CSV files, rendering them as one section holding a
// markdown table. The first row is treated as the header.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	res := &Result{Title: stem(filename)}
	if len(records) == 0 {
		return res, nil
	}

	headers := records[0]
	var table strings.Builder
	table.WriteString("| " + strings.Join(escapeCells(headers), " | ") + " |\n")
	table.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range records[1:] {
		cells := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		table.WriteString("| " + strings.Join(escapeCells(cells), " | ") + " |\n")
	}

	res.Sections = append(res.Sections, document.Section{
		ID:      marker.NewID(),
		Title:   res.Title,
		Content: strings.TrimRight(table.String(), "\n"),
	})
	return res, nil
}

// escapeCells keeps pipes and newlines inside cells from breaking the table.
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = strings.TrimSpace(c)
	}
	return out
}
