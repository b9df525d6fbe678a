// Package export reconstructs column-oriented tables from the generic
// row/cell storage and serializes them to parquet, csv, excel or json.
package export

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/dateparse"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/schema"
)

// ErrUnsupportedFormat rejects export formats outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Column is one reconstructed, typed column. Values holds one entry per row;
// nil marks a missing value (null cell or failed recast).
type Column struct {
	Name   string
	Type   entity.DataType
	Values []any
}

// Table is the column-oriented form of a materialized table.
type Table struct {
	Name     string
	RowCount int
	Columns  []Column
}

// Service builds export artifacts and records them as TableExport rows.
type Service struct {
	ctx *appcontext.Context
}

func NewService(ctx *appcontext.Context) *Service {
	return &Service{ctx: ctx}
}

// Export reconstructs the table, serializes it to the requested format under
// {MEDIA_ROOT}/exports/{FORMAT}/, and appends a TableExport record with the
// artifact's byte size.
func (s *Service) Export(tableID uuid.UUID, format entity.ExportFormat) (*entity.TableExport, error) {
	export, err := s.export(tableID, format)
	if err != nil {
		s.ctx.Logger.Error("Failed to export table",
			zap.String("table_id", tableID.String()),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}
	s.ctx.Logger.Info("Exported table",
		zap.String("table_id", tableID.String()),
		zap.String("format", string(format)),
		zap.String("path", export.Path),
		zap.Int64("file_size", export.FileSize))
	return export, nil
}

func (s *Service) export(tableID uuid.UUID, format entity.ExportFormat) (*entity.TableExport, error) {
	switch format {
	case entity.FormatParquet, entity.FormatCSV, entity.FormatExcel, entity.FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	table, err := s.Reconstruct(tableID)
	if err != nil {
		return nil, err
	}

	rel := s.artifactPath(table.Name, format)
	abs := filepath.Join(s.ctx.MediaRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	switch format {
	case entity.FormatParquet:
		err = writeParquet(table, abs)
	case entity.FormatCSV:
		err = writeCSV(table, abs)
	case entity.FormatExcel:
		err = writeExcel(table, abs)
	case entity.FormatJSON:
		err = writeJSON(table, abs)
	}
	if err != nil {
		return nil, fmt.Errorf("serialize %s export: %w", format, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat export artifact: %w", err)
	}

	export := entity.TableExport{
		TableID:  tableID,
		Path:     rel,
		Format:   format,
		FileSize: info.Size(),
	}
	if err := s.ctx.DB.Create(&export).Error; err != nil {
		return nil, fmt.Errorf("record export: %w", err)
	}
	return &export, nil
}

func (s *Service) artifactPath(tableName string, format entity.ExportFormat) string {
	safe := strings.ReplaceAll(slug.Make(tableName), "-", "_")
	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s.%s", safe, stamp, format.Ext())
	return path.Join("exports", strings.ToUpper(string(format)), name)
}

// Reconstruct rebuilds the typed, column-oriented table from storage with a
// single join query, avoiding per-cell access: at full scale the row-by-column
// cardinality reaches millions of cells.
func (s *Service) Reconstruct(tableID uuid.UUID) (*Table, error) {
	var table entity.DataTable
	if err := s.ctx.DB.Where("id = ?", tableID).First(&table).Error; err != nil {
		return nil, fmt.Errorf("load data table %s: %w", tableID, err)
	}

	var columns []entity.ColumnDefinition
	if err := s.ctx.DB.Where("sheet_id = ?", table.SheetID).
		Order("column_index").Find(&columns).Error; err != nil {
		return nil, fmt.Errorf("load column definitions: %w", err)
	}

	rowValues, rowOrder, err := s.fetchCellText(table.ID)
	if err != nil {
		return nil, err
	}

	out := &Table{Name: table.TableName, RowCount: len(rowOrder)}
	for _, col := range columns {
		values := make([]any, len(rowOrder))
		for i, rowIndex := range rowOrder {
			text, ok := rowValues[rowIndex][col.Name]
			if !ok {
				continue
			}
			values[i] = recast(text, col.DataType)
		}
		out.Columns = append(out.Columns, Column{Name: col.Name, Type: col.DataType, Values: values})
	}
	return out, nil
}

// fetchCellText runs the bulk join, projecting each cell's value as text
// through a CASE on the declared column type. Fallback strings stored under
// non-string columns surface as NULL here, same as the interactive read path.
func (s *Service) fetchCellText(tableID uuid.UUID) (map[int]map[string]string, []int, error) {
	const query = `
		SELECT r.row_index, cd.name,
			CASE cd.data_type
				WHEN 'string' THEN c.string_value
				WHEN 'unknown' THEN c.string_value
				WHEN 'integer' THEN CAST(c.integer_value AS TEXT)
				WHEN 'float' THEN CAST(c.float_value AS TEXT)
				WHEN 'date' THEN CAST(c.date_value AS TEXT)
				WHEN 'datetime' THEN CAST(c.datetime_value AS TEXT)
				WHEN 'boolean' THEN CAST(c.boolean_value AS TEXT)
			END AS value
		FROM data_rows r
		JOIN data_cells c ON c.row_id = r.id
		JOIN column_definitions cd ON cd.id = c.column_definition_id
		WHERE r.table_id = ?
		ORDER BY r.row_index, cd.column_index`

	rows, err := s.ctx.DB.Raw(query, tableID).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("query cells for table %s: %w", tableID, err)
	}
	defer rows.Close()

	rowValues := make(map[int]map[string]string)
	var rowOrder []int
	for rows.Next() {
		var rowIndex int
		var name string
		var value sql.NullString
		if err := rows.Scan(&rowIndex, &name, &value); err != nil {
			return nil, nil, fmt.Errorf("scan cell row: %w", err)
		}
		cells, ok := rowValues[rowIndex]
		if !ok {
			cells = make(map[string]string)
			rowValues[rowIndex] = cells
			rowOrder = append(rowOrder, rowIndex)
		}
		if value.Valid {
			cells[name] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate cells: %w", err)
	}
	return rowValues, rowOrder, nil
}

// recast converts a cell's text rendering back to its declared semantic type.
// Failures become missing values rather than errors.
func recast(text string, t entity.DataType) any {
	switch t {
	case entity.TypeInteger:
		if n, err := parseInt(text); err == nil {
			return n
		}
		return nil
	case entity.TypeFloat:
		if f, err := parseFloat(text); err == nil {
			return f
		}
		return nil
	case entity.TypeDate:
		if ts, ok := dateparse.Parse(text); ok {
			return dateparse.DateOnly(ts)
		}
		return nil
	case entity.TypeDatetime:
		if ts, ok := dateparse.Parse(text); ok {
			return ts
		}
		return nil
	case entity.TypeBoolean:
		if v, ok := schema.BoolToken(text); ok {
			return v
		}
		return nil
	default:
		return text
	}
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
