package excelio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/testdb"
)

// buildWorkbook produces an xlsx payload with two sheets of fixture data.
func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	set := func(sheet, cell string, v any) {
		t.Helper()
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}
	set("Sheet1", "A1", " Region ")
	set("Sheet1", "B1", "Total")
	set("Sheet1", "A2", "north")
	set("Sheet1", "B2", 10)
	set("Sheet1", "A3", "south")
	set("Sheet1", "B3", 20)

	if _, err := f.NewSheet("Prices"); err != nil {
		t.Fatal(err)
	}
	set("Prices", "A1", "unit")
	set("Prices", "A2", "kg")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func storeWorkbook(t *testing.T, appCtx *appcontext.Context) entity.ExcelFile {
	t.Helper()

	path, err := NewStore(appCtx).Save("fixture.xlsx", buildWorkbook(t))
	if err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	file := entity.ExcelFile{Name: "fixture.xlsx", Path: path}
	if err := appCtx.DB.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	return file
}

func TestSyncSheets(t *testing.T) {
	appCtx := testdb.Context(t)
	file := storeWorkbook(t, appCtx)

	sheets, err := NewDiscovery(appCtx).SyncSheets(file.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}
	if sheets[0].Name != "Sheet1" || sheets[0].RowCount != 2 {
		t.Errorf("sheets[0] = %s/%d", sheets[0].Name, sheets[0].RowCount)
	}
	if sheets[1].Name != "Prices" || sheets[1].RowCount != 1 {
		t.Errorf("sheets[1] = %s/%d", sheets[1].Name, sheets[1].RowCount)
	}
}

func TestSyncSheetsIdempotent(t *testing.T) {
	appCtx := testdb.Context(t)
	file := storeWorkbook(t, appCtx)

	d := NewDiscovery(appCtx)
	first, err := d.SyncSheets(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.SyncSheets(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("sheet %d: re-sync created a new record", i)
		}
	}
	var count int64
	appCtx.DB.Model(&entity.Sheet{}).Where("excel_file_id = ?", file.ID).Count(&count)
	if count != 2 {
		t.Errorf("sheet records = %d, want 2", count)
	}
}

func TestSyncSheetsUnreadableSource(t *testing.T) {
	appCtx := testdb.Context(t)

	path, err := NewStore(appCtx).Save("broken.xlsx", strings.NewReader("not a zip"))
	if err != nil {
		t.Fatal(err)
	}
	file := entity.ExcelFile{Name: "broken.xlsx", Path: path}
	if err := appCtx.DB.Create(&file).Error; err != nil {
		t.Fatal(err)
	}

	_, err = NewDiscovery(appCtx).SyncSheets(file.ID)
	if !errors.Is(err, ErrSourceRead) {
		t.Fatalf("err = %v, want ErrSourceRead", err)
	}

	// The failure is persisted on the record.
	var reloaded entity.ExcelFile
	if err := appCtx.DB.First(&reloaded, "id = ?", file.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Error == "" {
		t.Error("read failure was not persisted on the file")
	}
}

func TestReadSheet(t *testing.T) {
	appCtx := testdb.Context(t)
	file := storeWorkbook(t, appCtx)

	data, err := NewReader(appCtx).ReadSheet(file, "Sheet1")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	// Header cells are trimmed.
	if data.Header[0] != "Region" || data.Header[1] != "Total" {
		t.Errorf("header = %v", data.Header)
	}
	if len(data.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(data.Rows))
	}
	if data.Cell(0, 0) != "north" || data.Cell(1, 1) != "20" {
		t.Errorf("cells = %v / %v", data.Cell(0, 0), data.Cell(1, 1))
	}
	// Out-of-range access is nil, not a panic.
	if data.Cell(5, 0) != nil || data.Cell(0, 9) != nil {
		t.Error("out-of-range cell is not nil")
	}

	col := data.Column(1)
	if len(col) != 2 || col[0] != "10" {
		t.Errorf("column = %v", col)
	}
}
