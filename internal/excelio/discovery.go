package excelio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
)

// ErrSourceRead marks a stored spreadsheet that cannot be opened or parsed.
// The error text is also persisted on the owning ExcelFile record.
var ErrSourceRead = errors.New("source spreadsheet unreadable")

// Discovery enumerates the sheets of a stored file and upserts one Sheet
// record per name, keyed by (excel_file_id, name).
type Discovery struct {
	ctx *appcontext.Context
}

func NewDiscovery(ctx *appcontext.Context) *Discovery {
	return &Discovery{ctx: ctx}
}

func (d *Discovery) SyncSheets(fileID uuid.UUID) ([]entity.Sheet, error) {
	var file entity.ExcelFile
	if err := d.ctx.DB.Where("id = ?", fileID).First(&file).Error; err != nil {
		return nil, fmt.Errorf("load excel file %s: %w", fileID, err)
	}

	wb, data, err := d.openAll(file)
	if err != nil {
		// Record the failure on the file for later inspection, then surface it.
		if dbErr := d.ctx.DB.Model(&file).Update("error", err.Error()).Error; dbErr != nil {
			d.ctx.Logger.Error("Failed to persist source read error",
				zap.String("file_id", fileID.String()), zap.Error(dbErr))
		}
		d.ctx.Logger.Error("Failed to read sheets from file",
			zap.String("file_id", fileID.String()), zap.Error(err))
		return nil, err
	}
	defer wb.Close()

	sheets := make([]entity.Sheet, 0, len(data))
	for _, name := range wb.SheetNames() {
		var sheet entity.Sheet
		err := d.ctx.DB.
			Where(entity.Sheet{ExcelFileID: file.ID, Name: name}).
			Assign(map[string]interface{}{"row_count": len(data[name].Rows)}).
			FirstOrCreate(&sheet).Error
		if err != nil {
			d.ctx.Logger.Error("Failed to upsert sheet",
				zap.String("file_id", fileID.String()), zap.String("sheet", name), zap.Error(err))
			return nil, fmt.Errorf("upsert sheet %s: %w", name, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func (d *Discovery) openAll(file entity.ExcelFile) (*Workbook, map[string]SheetData, error) {
	store := NewStore(d.ctx)

	src, err := store.Open(file.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %w", ErrSourceRead, file.Path, err)
	}
	defer src.Close()

	wb, err := OpenWorkbook(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse %s: %w", ErrSourceRead, file.Path, err)
	}

	data := make(map[string]SheetData)
	for _, name := range wb.SheetNames() {
		sd, err := wb.Sheet(name)
		if err != nil {
			wb.Close()
			return nil, nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
		}
		data[name] = sd
	}
	return wb, data, nil
}
