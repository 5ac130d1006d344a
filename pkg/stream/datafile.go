package stream

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/gerr"
)

// unitsForFeatureFile produces one Unit per data record bound to
// featureFile (or a single dataRecord-less Unit when no data file applies),
// inheriting metaFiles and resolving the at-most-one-data-file discipline
// (spec.md §4.F).
func unitsForFeatureFile(featureFile string, metaFiles []string, explicitDataFile string) ([]ast.Unit, error) {
	dataFile, err := resolveDataFile(featureFile, explicitDataFile)
	if err != nil {
		return nil, err
	}

	base := ast.NewUnit(featureFile, metaFiles)
	if dataFile == "" {
		return []ast.Unit{base}, nil
	}

	records, err := loadDataRecords(dataFile)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []ast.Unit{base}, nil
	}

	units := make([]ast.Unit, len(records))
	for i, record := range records {
		units[i] = base.WithDataRecord(record)
	}
	return units, nil
}

// resolveDataFile applies the spec's precedence: an explicit data file
// always wins; otherwise at most one .csv/.json may sit beside featureFile,
// else an Ambiguous error.
func resolveDataFile(featureFile, explicitDataFile string) (string, error) {
	if explicitDataFile != "" {
		return explicitDataFile, nil
	}

	dir := filepath.Dir(featureFile)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", gerr.Wrap(gerr.IO, err, "failed to list %s", dir)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".json":
			candidates = append(candidates, filepath.Join(dir, e.Name()))
		}
	}

	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0], nil
	default:
		return "", gerr.New(gerr.Ambiguous, "more than one data file beside %s: %v", featureFile, candidates)
	}
}

func loadDataRecords(path string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSVRecords(path)
	case ".json":
		return loadJSONRecords(path)
	default:
		return nil, gerr.New(gerr.IO, "unsupported data file type %s", path)
	}
}

func loadCSVRecords(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gerr.Wrap(gerr.IO, err, "failed to open data file %s", path)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, gerr.Wrap(gerr.IO, err, "failed to parse CSV data file %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func loadJSONRecords(path string) ([]map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, gerr.Wrap(gerr.IO, err, "failed to read data file %s", path)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, gerr.Wrap(gerr.IO, err, "failed to parse JSON data file %s", path)
	}

	records := make([]map[string]string, len(raw))
	for i, rec := range raw {
		out := make(map[string]string, len(rec))
		for k, v := range rec {
			out[k] = stringify(v)
		}
		records[i] = out
	}
	return records, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
