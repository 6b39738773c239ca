package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
)

// ExportCSV writes the filtered view to a CSV file, one column per schema
// field in schema order, headed by the field labels.
func ExportCSV(records []record.Record, fields []schema.FieldDefinition, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = fieldHeader(f)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(fields))
		for i, f := range fields {
			val, ok := record.Resolve(rec, f.Key)
			if !ok {
				row[i] = ""
				continue
			}
			row[i] = FormatValue(f, val)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportJSON writes the filtered records to a pretty-printed JSON file,
// preserving the full record shape rather than the schema projection.
func ExportJSON(records []record.Record, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

func fieldHeader(f schema.FieldDefinition) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// FormatValue renders a field value for display or CSV. This is the one
// place amount differs from number: amounts render with two decimals.
func FormatValue(f schema.FieldDefinition, v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if f.Type == schema.FieldAmount {
			return strconv.FormatFloat(t, 'f', 2, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}
