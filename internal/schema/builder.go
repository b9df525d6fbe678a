package schema

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/excelio"
)

// SheetSource resolves a sheet's raw content.
type SheetSource interface {
	ReadSheet(file entity.ExcelFile, sheetName string) (excelio.SheetData, error)
}

// Builder infers and persists the column schema of a sheet.
type Builder struct {
	ctx    *appcontext.Context
	source SheetSource
}

func NewBuilder(ctx *appcontext.Context, source SheetSource) *Builder {
	return &Builder{ctx: ctx, source: source}
}

// DetectColumnTypes walks the sheet's columns in header order, infers each
// column's type and nullability, and upserts a ColumnDefinition keyed by
// (sheet, column_index). Re-running on an unchanged sheet produces identical
// definitions.
func (b *Builder) DetectColumnTypes(sheetID uuid.UUID) ([]entity.ColumnDefinition, error) {
	var sheet entity.Sheet
	if err := b.ctx.DB.Where("id = ?", sheetID).First(&sheet).Error; err != nil {
		return nil, fmt.Errorf("load sheet %s: %w", sheetID, err)
	}
	var file entity.ExcelFile
	if err := b.ctx.DB.Where("id = ?", sheet.ExcelFileID).First(&file).Error; err != nil {
		return nil, fmt.Errorf("load excel file %s: %w", sheet.ExcelFileID, err)
	}

	data, err := b.source.ReadSheet(file, sheet.Name)
	if err != nil {
		b.ctx.Logger.Error("Failed to read sheet for schema detection",
			zap.String("sheet_id", sheetID.String()), zap.Error(err))
		return nil, err
	}

	columns := make([]entity.ColumnDefinition, 0, len(data.Header))
	for i, rawName := range data.Header {
		raw := data.Column(i)
		dataType := Infer(DropNulls(raw))
		nullable := Nullable(raw)

		var def entity.ColumnDefinition
		err := b.ctx.DB.
			Where("sheet_id = ? AND column_index = ?", sheet.ID, i).
			Assign(map[string]interface{}{
				"name":          NormalizeColumnName(rawName),
				"original_name": Stringify(rawName),
				"data_type":     dataType,
				"nullable":      nullable,
			}).
			FirstOrCreate(&def, entity.ColumnDefinition{SheetID: sheet.ID, ColumnIndex: i}).Error
		if err != nil {
			b.ctx.Logger.Error("Failed to upsert column definition",
				zap.String("sheet_id", sheetID.String()), zap.Int("column_index", i), zap.Error(err))
			return nil, fmt.Errorf("upsert column %d of sheet %s: %w", i, sheetID, err)
		}
		columns = append(columns, def)
	}

	return columns, nil
}
