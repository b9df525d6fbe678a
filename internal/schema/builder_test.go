package schema

import (
	"testing"

	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/excelio"
	"github.com/isvialnva/excel-processor/internal/testdb"
)

type stubSource struct {
	data excelio.SheetData
	err  error
}

func (s stubSource) ReadSheet(file entity.ExcelFile, sheetName string) (excelio.SheetData, error) {
	return s.data, s.err
}

func TestDetectColumnTypes(t *testing.T) {
	appCtx := testdb.Context(t)

	file := entity.ExcelFile{Name: "report.xlsx", Path: "excel_files/report.xlsx"}
	if err := appCtx.DB.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	sheet := entity.Sheet{ExcelFileID: file.ID, Name: "Sales", RowCount: 3}
	if err := appCtx.DB.Create(&sheet).Error; err != nil {
		t.Fatal(err)
	}

	source := stubSource{data: excelio.SheetData{
		Header: []any{"Region", "2023 Sales", "Active", nil},
		Rows: [][]any{
			{"north", int64(10), "yes", "a"},
			{"south", int64(20), "no", nil},
			{nil, int64(30), "yes", "c"},
		},
	}}

	builder := NewBuilder(appCtx, source)
	columns, err := builder.DetectColumnTypes(sheet.ID)
	if err != nil {
		t.Fatalf("DetectColumnTypes: %v", err)
	}
	if len(columns) != 4 {
		t.Fatalf("got %d columns, want 4", len(columns))
	}

	want := []struct {
		name     string
		dataType entity.DataType
		nullable bool
	}{
		{"region", entity.TypeString, true},
		{"col_2023_sales", entity.TypeInteger, false},
		{"active", entity.TypeBoolean, false},
		{"unnamed_column", entity.TypeString, true},
	}
	for i, w := range want {
		col := columns[i]
		if col.ColumnIndex != i {
			t.Errorf("column %d: index = %d", i, col.ColumnIndex)
		}
		if col.Name != w.name {
			t.Errorf("column %d: name = %q, want %q", i, col.Name, w.name)
		}
		if col.DataType != w.dataType {
			t.Errorf("column %d: data_type = %q, want %q", i, col.DataType, w.dataType)
		}
		if col.Nullable != w.nullable {
			t.Errorf("column %d: nullable = %v, want %v", i, col.Nullable, w.nullable)
		}
	}
}

func TestDetectColumnTypesIdempotent(t *testing.T) {
	appCtx := testdb.Context(t)

	file := entity.ExcelFile{Name: "report.xlsx", Path: "excel_files/report.xlsx"}
	if err := appCtx.DB.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	sheet := entity.Sheet{ExcelFileID: file.ID, Name: "Data", RowCount: 2}
	if err := appCtx.DB.Create(&sheet).Error; err != nil {
		t.Fatal(err)
	}

	source := stubSource{data: excelio.SheetData{
		Header: []any{"id", "amount"},
		Rows:   [][]any{{int64(1), 1.5}, {int64(2), 2.5}},
	}}
	builder := NewBuilder(appCtx, source)

	first, err := builder.DetectColumnTypes(sheet.ID)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := builder.DetectColumnTypes(sheet.ID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("column %d: re-run created a new row (%s vs %s)", i, first[i].ID, second[i].ID)
		}
	}
	var count int64
	appCtx.DB.Model(&entity.ColumnDefinition{}).Where("sheet_id = ?", sheet.ID).Count(&count)
	if count != 2 {
		t.Errorf("column definitions = %d, want 2", count)
	}
}

func TestDetectColumnTypesRetype(t *testing.T) {
	appCtx := testdb.Context(t)

	file := entity.ExcelFile{Name: "report.xlsx", Path: "excel_files/report.xlsx"}
	if err := appCtx.DB.Create(&file).Error; err != nil {
		t.Fatal(err)
	}
	sheet := entity.Sheet{ExcelFileID: file.ID, Name: "Data", RowCount: 2}
	if err := appCtx.DB.Create(&sheet).Error; err != nil {
		t.Fatal(err)
	}

	builder := NewBuilder(appCtx, stubSource{data: excelio.SheetData{
		Header: []any{"value"},
		Rows:   [][]any{{int64(1)}, {int64(2)}},
	}})
	first, err := builder.DetectColumnTypes(sheet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].DataType != entity.TypeInteger {
		t.Fatalf("initial type = %q", first[0].DataType)
	}

	// Same sheet, new content: the definition is updated in place.
	builder = NewBuilder(appCtx, stubSource{data: excelio.SheetData{
		Header: []any{"value"},
		Rows:   [][]any{{"1"}, {"n/a"}},
	}})
	second, err := builder.DetectColumnTypes(sheet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].ID != first[0].ID {
		t.Errorf("retype created a new definition")
	}
	if second[0].DataType != entity.TypeString {
		t.Errorf("retyped data_type = %q, want %q", second[0].DataType, entity.TypeString)
	}
}
