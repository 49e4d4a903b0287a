package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/aitrpg/internal/doctree"
)

// csvBatchRows is how many data rows go into one node.
const csvBatchRows = 20

// CSVParser renders tabular source (NPC rosters, item lists) as
// "header: value" records, grouped into batches.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title:  stem(filename, ".csv"),
		Format: doctree.FormatCSV,
	}
	if len(records) < 2 {
		return tree, nil
	}

	headers, rows := records[0], records[1:]
	for start := 0; start < len(rows); start += csvBatchRows {
		end := min(start+csvBatchRows, len(rows))

		var lines []string
		for _, row := range rows[start:end] {
			lines = append(lines, formatRecord(headers, row))
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			// Line numbers are 1-based and the header is line 1.
			Title: fmt.Sprintf("Rows %d-%d", start+2, end+1),
			Text:  strings.Join(lines, "\n"),
		})
	}
	return tree, nil
}

func formatRecord(headers, row []string) string {
	fields := make([]string, 0, len(row))
	for i, cell := range row {
		if i < len(headers) && headers[i] != "" {
			fields = append(fields, headers[i]+": "+cell)
		} else {
			fields = append(fields, cell)
		}
	}
	return strings.Join(fields, "; ")
}
