package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// Load opens a data file and dispatches on its extension. SQLite sources
// need a table name and go through LoadSQLite instead.
func Load(path string) (*Memory, error) {
	switch filepath.Ext(path) {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported data file %s", path)
	}
}

// LoadCSV reads a CSV file whose first row is the header. Ragged rows are
// accepted and padded to the header width.
func LoadCSV(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // safe to ignore

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow ragged rows, New pads them
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}
	return New(records[0], records[1:]), nil
}

// LoadJSON reads a JSON array of flat objects. Column headings are the
// sorted union of the object keys, so the layout is deterministic
// regardless of key order in the file.
func LoadJSON(path string) (*Memory, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json %s: %w", path, err)
	}
	data, err := oj.ParseString(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}
	list, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("json %s: expected a top-level array of records", path)
	}
	return fromRecords(list)
}

// LoadYAML reads a YAML sequence of flat mappings, shaped like LoadJSON.
func LoadYAML(path string) (*Memory, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml %s: %w", path, err)
	}
	var data []map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	list := make([]any, len(data))
	for i, m := range data {
		rec := make(map[string]any, len(m))
		for k, v := range m {
			rec[k] = v
		}
		list[i] = rec
	}
	return fromRecords(list)
}

func fromRecords(list []any) (*Memory, error) {
	keys := map[string]bool{}
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %v: expected an object", item)
		}
		for k := range rec {
			keys[k] = true
		}
	}
	headers := make([]string, 0, len(keys))
	for k := range keys {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([][]string, len(list))
	for i, item := range list {
		rec := item.(map[string]any)
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = stringify(rec[h])
		}
		rows[i] = row
	}
	return New(headers, rows), nil
}

// stringify renders a parsed scalar the way it appeared in the source
// document. Integral floats drop the trailing ".0" YAML/JSON decoding
// introduces.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
