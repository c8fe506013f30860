package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/domain/entities"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to file",
		Long: "Exports the child's stored documents as written, at their original schema version. " +
			"JSON output can be imported again unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(exportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, exportFormats)
	}

	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		docs, err := d.repo.ListDocuments(ctx, d.Child.ID)
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}
		if len(docs) == 0 {
			return fmt.Errorf("no entries found to export")
		}
		d.logger.Debug("exporting documents", "count", len(docs), "format", flags.format)

		return writeOutput(flags.output, len(docs), func(w io.Writer) error {
			if flags.format == "csv" {
				return formatDocumentsCSV(w, docs)
			}
			return formatDocumentsJSON(w, docs)
		})
	})
}

// writeOutput runs write against the named file, or stdout when name is empty.
func writeOutput(name string, count int, write func(io.Writer) error) (err error) {
	var w io.Writer = os.Stdout

	if name != "" {
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	if err := write(w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if name != "" {
		fmt.Printf("Exported %d entries to %s\n", count, name)
	}
	return nil
}

func formatDocumentsJSON(w io.Writer, docs []entities.Document) error {
	if docs == nil {
		docs = []entities.Document{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(docs)
}

// formatDocumentsCSV writes one column per field seen in any document, id
// first and the rest sorted. Nested values are written as JSON.
func formatDocumentsCSV(w io.Writer, docs []entities.Document) error {
	columns := documentColumns(docs)
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, doc := range docs {
		row := make([]string, len(columns))
		for i, col := range columns {
			cell, err := csvCell(doc[col])
			if err != nil {
				return fmt.Errorf("document %s field %s: %w", doc.ID(), col, err)
			}
			row[i] = cell
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func documentColumns(docs []entities.Document) []string {
	seen := map[string]bool{entities.FieldID: true}
	var rest []string
	for _, doc := range docs {
		for k := range doc {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{entities.FieldID}, rest...)
}

func csvCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
