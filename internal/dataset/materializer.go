package dataset

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/excelio"
)

// ErrSchemaMissing means a sheet has no column definitions and cannot be
// materialized.
var ErrSchemaMissing = errors.New("sheet has no column definitions")

// DefaultBatchSize is the number of source rows per insert transaction.
const DefaultBatchSize = 1000

// insertChunkSize keeps a single INSERT under the driver parameter limits.
const insertChunkSize = 500

// SheetSource resolves a sheet's raw content.
type SheetSource interface {
	ReadSheet(file entity.ExcelFile, sheetName string) (excelio.SheetData, error)
}

// Materializer rebuilds a sheet's DataTable from its current content. Rows
// stream in fixed-size batches; each batch's rows and cells commit in one
// transaction, but batches are independent of each other, so a failure
// mid-run leaves earlier batches committed and the processed flags unset.
type Materializer struct {
	ctx       *appcontext.Context
	source    SheetSource
	BatchSize int
}

func NewMaterializer(ctx *appcontext.Context, source SheetSource) *Materializer {
	return &Materializer{ctx: ctx, source: source, BatchSize: DefaultBatchSize}
}

// CreateDataTableFromSheet performs a full replace: prior rows (and their
// cells) are deleted before the table is repopulated from the source.
func (m *Materializer) CreateDataTableFromSheet(sheetID uuid.UUID) (*entity.DataTable, error) {
	table, err := m.materialize(sheetID)
	if err != nil {
		m.ctx.Logger.Error("Failed to materialize sheet",
			zap.String("sheet_id", sheetID.String()), zap.Error(err))
		return nil, err
	}
	return table, nil
}

func (m *Materializer) materialize(sheetID uuid.UUID) (*entity.DataTable, error) {
	db := m.ctx.DB

	var sheet entity.Sheet
	if err := db.Where("id = ?", sheetID).First(&sheet).Error; err != nil {
		return nil, fmt.Errorf("load sheet %s: %w", sheetID, err)
	}
	var file entity.ExcelFile
	if err := db.Where("id = ?", sheet.ExcelFileID).First(&file).Error; err != nil {
		return nil, fmt.Errorf("load excel file %s: %w", sheet.ExcelFileID, err)
	}

	var columns []entity.ColumnDefinition
	if err := db.Where("sheet_id = ?", sheet.ID).Order("column_index").Find(&columns).Error; err != nil {
		return nil, fmt.Errorf("load column definitions: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: sheet %s", ErrSchemaMissing, sheet.Name)
	}

	data, err := m.source.ReadSheet(file, sheet.Name)
	if err != nil {
		return nil, err
	}

	tableName := fmt.Sprintf("%s_%s", file.ID, sheet.Name)
	var table entity.DataTable
	err = db.Where("sheet_id = ?", sheet.ID).
		Assign(map[string]interface{}{"table_name": tableName, "row_count": len(data.Rows)}).
		FirstOrCreate(&table, entity.DataTable{SheetID: sheet.ID, TableName: tableName}).Error
	if err != nil {
		return nil, fmt.Errorf("upsert data table %s: %w", tableName, err)
	}
	table.RowCount = len(data.Rows)

	// Full replace: clear prior rows and cells up front, in their own
	// transaction. Cells go first so the replace also works on stores
	// without cascading foreign keys.
	err = db.Transaction(func(tx *gorm.DB) error {
		rowIDs := tx.Model(&entity.DataRow{}).Select("id").Where("table_id = ?", table.ID)
		if err := tx.Where("row_id IN (?)", rowIDs).Delete(&entity.DataCell{}).Error; err != nil {
			return err
		}
		return tx.Where("table_id = ?", table.ID).Delete(&entity.DataRow{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("clear table %s: %w", tableName, err)
	}

	total := len(data.Rows)
	for start := 0; start < total; start += m.BatchSize {
		end := start + m.BatchSize
		if end > total {
			end = total
		}
		if err := m.insertBatch(&table, columns, data, start, end); err != nil {
			return nil, fmt.Errorf("insert batch starting at row %d: %w", start, err)
		}
	}

	if err := db.Model(&sheet).Update("processed", true).Error; err != nil {
		return nil, fmt.Errorf("mark sheet processed: %w", err)
	}

	var pending int64
	if err := db.Model(&entity.Sheet{}).
		Where("excel_file_id = ? AND processed = ?", file.ID, false).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("count unprocessed sheets: %w", err)
	}
	if pending == 0 {
		if err := db.Model(&file).Update("processed", true).Error; err != nil {
			return nil, fmt.Errorf("mark file processed: %w", err)
		}
	}

	m.ctx.Logger.Info("Materialized sheet",
		zap.String("sheet_id", sheetID.String()),
		zap.String("table_name", tableName),
		zap.Int("row_count", total))

	return &table, nil
}

// insertBatch writes the rows [start, end) and all their cells atomically.
func (m *Materializer) insertBatch(table *entity.DataTable, columns []entity.ColumnDefinition, data excelio.SheetData, start, end int) error {
	return m.ctx.DB.Transaction(func(tx *gorm.DB) error {
		rows := make([]entity.DataRow, end-start)
		for i := range rows {
			rows[i] = entity.DataRow{TableID: table.ID, RowIndex: start + i}
		}
		if err := tx.CreateInBatches(&rows, insertChunkSize).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}

		cells := make([]entity.DataCell, 0, len(rows)*len(columns))
		for i, row := range rows {
			for _, col := range columns {
				cell := entity.DataCell{RowID: row.ID, ColumnDefinitionID: col.ID}
				Coerce(data.Cell(start+i, col.ColumnIndex), col.DataType).Apply(&cell)
				cells = append(cells, cell)
			}
		}
		if err := tx.CreateInBatches(&cells, insertChunkSize).Error; err != nil {
			return fmt.Errorf("insert cells: %w", err)
		}
		return nil
	})
}
