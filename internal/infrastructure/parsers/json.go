package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// JSONParser parses documents from JSON. The input is either an array of
// objects or an export object keyed by document id. Elements that are not
// objects are returned with ReasonNotObject instead of failing the parse.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed documents.
func (p *JSONParser) Parse(r io.Reader) ([]RawDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return p.parseKeyed(trimmed)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Line numbers are array index + 1
	result := make([]RawDocument, 0, len(elements))
	for i, element := range elements {
		raw := RawDocument{Line: i + 1}
		if doc, ok := decodeObject(element); ok {
			raw.Data = doc
		} else {
			raw.Reason = ReasonNotObject
		}
		result = append(result, raw)
	}
	return result, nil
}

// parseKeyed reads {"<id>": {...}, ...}. Documents without an id field take
// their key. Keys are read in sorted order.
func (p *JSONParser) parseKeyed(data []byte) ([]RawDocument, error) {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]RawDocument, 0, len(keys))
	for i, key := range keys {
		doc, ok := decodeObject(keyed[key])
		if !ok {
			result = append(result, RawDocument{
				Line:   i + 1,
				Data:   entities.Document{entities.FieldID: key},
				Reason: ReasonNotObject,
			})
			continue
		}
		if _, ok := doc[entities.FieldID]; !ok {
			doc[entities.FieldID] = key
		}
		result = append(result, RawDocument{Line: i + 1, Data: doc})
	}
	return result, nil
}

// decodeObject decodes one element, reporting false for anything but a
// non-null object.
func decodeObject(element json.RawMessage) (entities.Document, bool) {
	var doc map[string]any
	if err := json.Unmarshal(element, &doc); err != nil || doc == nil {
		return nil, false
	}
	return entities.Document(doc), true
}
