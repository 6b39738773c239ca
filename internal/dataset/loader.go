package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
)

// Dataset is an ordered record sequence together with where it came from.
type Dataset struct {
	Name    string
	Records []record.Record
}

// Load reads a dataset file, picking the format from the extension:
// .json (array or NDJSON) or .csv.
func Load(path string, s *schema.Schema) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path, s)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// LoadJSON reads records from a JSON file containing either a top-level
// array of objects or newline-delimited objects.
func LoadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	name := filepath.Base(path)
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []record.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
		return &Dataset{Name: name, Records: records}, nil
	}

	var records []record.Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dataset: %w", err)
	}

	return &Dataset{Name: name, Records: records}, nil
}

// MultiSelectSeparator splits multi-valued CSV cells.
const MultiSelectSeparator = ","

// LoadCSV reads records from a CSV file with a header row. Cells are typed
// by the schema: number and amount parse to float64, boolean to bool,
// multi-select splits on commas. Dotted header names expand into nested
// objects so dot-path resolution works the same as for JSON datasets.
// Headers not present in the schema stay as plain strings.
func LoadCSV(path string, s *schema.Schema) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file has no header row")
	}

	header := rows[0]
	records := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := record.Record{}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			key := header[i]
			record.Set(rec, key, typedCell(cell, key, s))
		}
		records = append(records, rec)
	}

	return &Dataset{Name: filepath.Base(path), Records: records}, nil
}

func typedCell(cell, key string, s *schema.Schema) any {
	var fieldType schema.FieldType = schema.FieldText
	if s != nil {
		if def, ok := s.Field(key); ok {
			fieldType = def.Type
		}
	}

	switch fieldType {
	case schema.FieldNumber, schema.FieldAmount:
		if n, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return n
		}
		return cell
	case schema.FieldBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(cell)); err == nil {
			return b
		}
		return cell
	case schema.FieldMultiSelect:
		if cell == "" {
			return []any{}
		}
		parts := strings.Split(cell, MultiSelectSeparator)
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	default:
		return cell
	}
}
