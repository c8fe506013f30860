package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// Columns converted from text when they parse; values that do not parse are
// kept as strings so validation can report them.
var (
	numberColumns = map[string]bool{
		entities.FieldAmountOz:      true,
		entities.FieldLeftAmountOz:  true,
		entities.FieldRightAmountOz: true,
		entities.FieldTotalAmountOz: true,
	}
	boolColumns = map[string]bool{
		entities.FieldRash: true,
	}
)

// CSVParser parses documents from CSV format with a header row naming the
// document fields. Empty cells are absent fields.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed documents.
// The only required column is startedAt.
func (p *CSVParser) Parse(r io.Reader) ([]RawDocument, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, header)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	found := false
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		if header[i] == entities.FieldStartedAt {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("missing required column: %s", entities.FieldStartedAt)
	}

	return header, nil
}

// readRecords reads all data rows and converts them to RawDocuments.
func (p *CSVParser) readRecords(reader *csv.Reader, header []string) ([]RawDocument, error) {
	var docs []RawDocument
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		docs = append(docs, RawDocument{Line: lineNum, Data: parseRecord(record, header)})
	}

	return docs, nil
}

// parseRecord converts a CSV record to a document.
func parseRecord(record, header []string) entities.Document {
	doc := make(entities.Document, len(header))
	for i, col := range header {
		if col == "" || i >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}
		doc[col] = coerceCell(col, value)
	}
	return doc
}

func coerceCell(col, value string) any {
	switch {
	case col == entities.FieldSchemaVersion:
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case numberColumns[col]:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case boolColumns[col]:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}
