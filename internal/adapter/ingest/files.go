package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads raw records from a dictionary data file, dispatching on
// extension.
func LoadFile(path string) ([]RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unrecognized dictionary file format: %s", path)
	}
}

// LoadJSON reads records from a JSON file. Both a bare array and an object
// wrapper ({"entries": [...]} or {"words": [...]}) are accepted, since
// upstream exports use either shape.
func LoadJSON(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Entries []RawRecord `json:"entries"`
		Words   []RawRecord `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		if len(wrapper.Entries) > 0 {
			return wrapper.Entries, nil
		}
		if len(wrapper.Words) > 0 {
			return wrapper.Words, nil
		}
	}

	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s as object wrapper or array: %w", path, err)
	}
	return records, nil
}

// LoadCSV reads records from a CSV file. The header row supplies the field
// names; synonym resolution happens later in Transform.
func LoadCSV(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[strings.TrimSpace(col)] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
