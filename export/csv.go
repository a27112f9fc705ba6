// Package export writes generated tables and run reports to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	supplegen "github.com/Paranoid-AF/supplegen"
)

// FileName returns the CSV file name for kind.
func FileName(kind supplegen.Kind) string {
	return string(kind) + ".csv"
}

// WriteTable writes tbl as CSV: a header of the table's columns followed by
// one row per record. Missing fields are written as empty cells.
func WriteTable(w io.Writer, tbl *supplegen.Table) error {
	cols := tbl.Columns()
	cw := csv.NewWriter(w)

	if len(cols) > 0 {
		if err := cw.Write(cols); err != nil {
			return err
		}
	}

	row := make([]string, len(cols))
	for _, rec := range tbl.Records {
		for i, col := range cols {
			cell, err := formatValue(rec[col])
			if err != nil {
				return fmt.Errorf("column %s: %w", col, err)
			}
			row[i] = cell
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV writes tbl to path, replacing any existing file.
func WriteCSV(path string, tbl *supplegen.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteTable(tmp, tbl); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteTables creates dir if needed and writes each table to <kind>.csv.
// It returns the written paths in table order.
func WriteTables(dir string, tables ...*supplegen.Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(tables))
	for _, tbl := range tables {
		path := filepath.Join(dir, FileName(tbl.Kind))
		if err := WriteCSV(path, tbl); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// formatValue renders one cell. Lists and objects are JSON-encoded.
func formatValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
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
