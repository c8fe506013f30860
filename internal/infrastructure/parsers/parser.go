// Package parsers provides parsers for importing raw entry documents from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// RawDocument is an entry document read from an external source before
// migration and validation.
type RawDocument struct {
	Line int               // Position in the source file (set by parser)
	Data entities.Document // Fields exactly as read
	// Reason is set when the element could not be read as a document. Data
	// then holds at most the id taken from the source.
	Reason string
}

// ReasonNotObject marks a source element that is not a JSON object.
const ReasonNotObject = "not an object"

// Parser defines the interface for parsing raw documents from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawDocument, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
