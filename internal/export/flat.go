package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/isvialnva/excel-processor/internal/entity"
)

// formatValue renders a typed value for the flat formats. Missing values
// render as the empty string.
func formatValue(v any, t entity.DataType) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if t == entity.TypeDate {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%v", v)
}

func writeCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for row := 0; row < t.RowCount; row++ {
		for i, col := range t.Columns {
			record[i] = formatValue(col.Values[row], col.Type)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]map[string]any, t.RowCount)
	for row := 0; row < t.RowCount; row++ {
		obj := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			v := col.Values[row]
			if ts, ok := v.(time.Time); ok {
				obj[col.Name] = formatValue(ts, col.Type)
			} else {
				obj[col.Name] = v
			}
		}
		rows[row] = obj
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeExcel(t *Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return err
		}
	}

	for row := 0; row < t.RowCount; row++ {
		for i, col := range t.Columns {
			v := col.Values[row]
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return err
			}
			// Dates keep their text rendering so the artifact round-trips
			// through the same parser.
			if ts, ok := v.(time.Time); ok {
				v = formatValue(ts, col.Type)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
