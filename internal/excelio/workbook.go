// Package excelio reads uploaded spreadsheets, discovers their sheets, and
// manages the underlying file storage.
package excelio

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/entity"
)

// SheetData is one worksheet split into its header row and data rows. Values
// keep whatever type the source produced (excelize yields strings; stub
// sources may carry native ints, floats or times). Data rows may be shorter
// than the header when trailing cells are empty.
type SheetData struct {
	Header []any
	Rows   [][]any
}

// Cell returns the raw value at (row, columnIndex), or nil when the row does
// not reach that column.
func (d SheetData) Cell(row, columnIndex int) any {
	if row < 0 || row >= len(d.Rows) {
		return nil
	}
	r := d.Rows[row]
	if columnIndex < 0 || columnIndex >= len(r) {
		return nil
	}
	return r[columnIndex]
}

// Column gathers the raw values of one column across all data rows.
func (d SheetData) Column(columnIndex int) []any {
	values := make([]any, len(d.Rows))
	for i := range d.Rows {
		values[i] = d.Cell(i, columnIndex)
	}
	return values
}

// Workbook wraps an open excelize file.
type Workbook struct {
	f *excelize.File
}

func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet reads one worksheet. The first row is the header; its cells are
// trimmed. An empty worksheet yields an empty header and no rows.
func (w *Workbook) Sheet(name string) (SheetData, error) {
	rows, err := w.f.GetRows(name)
	if err != nil {
		return SheetData{}, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return SheetData{}, nil
	}

	header := make([]any, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	data := make([][]any, len(rows)-1)
	for i, row := range rows[1:] {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		data[i] = cells
	}
	return SheetData{Header: header, Rows: data}, nil
}

// Reader resolves a sheet's content from the stored upload. It satisfies the
// SheetSource interfaces of the schema builder and the materializer.
type Reader struct {
	ctx *appcontext.Context
}

func NewReader(ctx *appcontext.Context) *Reader {
	return &Reader{ctx: ctx}
}

func (r *Reader) ReadSheet(file entity.ExcelFile, sheetName string) (SheetData, error) {
	store := NewStore(r.ctx)

	src, err := store.Open(file.Path)
	if err != nil {
		return SheetData{}, fmt.Errorf("%w: open %s: %w", ErrSourceRead, file.Path, err)
	}
	defer src.Close()

	wb, err := OpenWorkbook(src)
	if err != nil {
		return SheetData{}, fmt.Errorf("%w: parse %s: %w", ErrSourceRead, file.Path, err)
	}
	defer wb.Close()

	data, err := wb.Sheet(sheetName)
	if err != nil {
		return SheetData{}, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	return data, nil
}
