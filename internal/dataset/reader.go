package dataset

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
)

// ColumnInfo describes one column in a TableData page.
type ColumnInfo struct {
	Name         string          `json:"name"`
	OriginalName string          `json:"original_name"`
	Type         entity.DataType `json:"type"`
}

// TableData is one page of fully-typed rows plus the total row count.
type TableData struct {
	TableName string           `json:"table_name"`
	TotalRows int              `json:"total_rows"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Columns   []ColumnInfo     `json:"columns"`
	Rows      []map[string]any `json:"rows"`
}

// Reader serves interactive, paged access to a materialized table.
type Reader struct {
	ctx *appcontext.Context
}

func NewReader(ctx *appcontext.Context) *Reader {
	return &Reader{ctx: ctx}
}

// GetTableData returns the requested page as row maps keyed by normalized
// column name. Values resolve through declared-type dispatch, so a fallback
// cell under a non-string column reads as nil.
func (r *Reader) GetTableData(tableID uuid.UUID, page, pageSize int) (*TableData, error) {
	data, err := r.getTableData(tableID, page, pageSize)
	if err != nil {
		r.ctx.Logger.Error("Failed to read table data",
			zap.String("table_id", tableID.String()), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (r *Reader) getTableData(tableID uuid.UUID, page, pageSize int) (*TableData, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	db := r.ctx.DB

	var table entity.DataTable
	if err := db.Where("id = ?", tableID).First(&table).Error; err != nil {
		return nil, fmt.Errorf("load data table %s: %w", tableID, err)
	}

	var columns []entity.ColumnDefinition
	if err := db.Where("sheet_id = ?", table.SheetID).Order("column_index").Find(&columns).Error; err != nil {
		return nil, fmt.Errorf("load column definitions: %w", err)
	}

	result := &TableData{
		TableName: table.TableName,
		TotalRows: table.RowCount,
		Page:      page,
		PageSize:  pageSize,
		Columns:   make([]ColumnInfo, len(columns)),
		Rows:      []map[string]any{},
	}
	for i, col := range columns {
		result.Columns[i] = ColumnInfo{Name: col.Name, OriginalName: col.OriginalName, Type: col.DataType}
	}

	var rows []entity.DataRow
	offset := (page - 1) * pageSize
	if err := db.Where("table_id = ?", table.ID).
		Order("row_index").Offset(offset).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	if len(rows) == 0 {
		return result, nil
	}

	// One query for the whole page's cells rather than one per row.
	rowIDs := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		rowIDs[i] = row.ID
	}
	var cells []entity.DataCell
	if err := db.Where("row_id IN ?", rowIDs).
		Preload("ColumnDefinition").
		Find(&cells).Error; err != nil {
		return nil, fmt.Errorf("load cells: %w", err)
	}

	byRow := make(map[uuid.UUID]map[string]any, len(rows))
	for _, cell := range cells {
		if cell.ColumnDefinition == nil {
			continue
		}
		rowData, ok := byRow[cell.RowID]
		if !ok {
			rowData = make(map[string]any, len(columns))
			byRow[cell.RowID] = rowData
		}
		rowData[cell.ColumnDefinition.Name] = cell.Value()
	}

	for _, row := range rows {
		rowData := byRow[row.ID]
		if rowData == nil {
			rowData = map[string]any{}
		}
		result.Rows = append(result.Rows, rowData)
	}
	return result, nil
}
