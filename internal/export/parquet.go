package export

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/isvialnva/excel-processor/internal/entity"
)

func arrowType(t entity.DataType) arrow.DataType {
	switch t {
	case entity.TypeInteger:
		return arrow.PrimitiveTypes.Int64
	case entity.TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case entity.TypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case entity.TypeDate:
		return arrow.FixedWidthTypes.Date32
	case entity.TypeDatetime:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// writeParquet serializes the table to a parquet file with the schema
// embedded: typed arrow columns, missing values as nulls.
func writeParquet(t *Table, path string) error {
	mem := memory.DefaultAllocator

	fields := make([]arrow.Field, len(t.Columns))
	arrays := make([]arrow.Array, len(t.Columns))
	for i, col := range t.Columns {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true}
		arr, err := buildArray(mem, col)
		if err != nil {
			return err
		}
		defer arr.Release()
		arrays[i] = arr
	}

	arrowSchema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(arrowSchema, arrays, int64(t.RowCount))
	defer rec.Release()
	tbl := array.NewTableFromRecords(arrowSchema, []arrow.Record{rec})
	defer tbl.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	chunkSize := int64(t.RowCount)
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(tbl, f, chunkSize, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

func buildArray(mem memory.Allocator, col Column) (arrow.Array, error) {
	switch col.Type {
	case entity.TypeInteger:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range col.Values {
			if n, ok := v.(int64); ok {
				b.Append(n)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case entity.TypeFloat:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range col.Values {
			if f, ok := v.(float64); ok {
				b.Append(f)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case entity.TypeBoolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, v := range col.Values {
			if x, ok := v.(bool); ok {
				b.Append(x)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case entity.TypeDate:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		for _, v := range col.Values {
			if ts, ok := v.(time.Time); ok {
				b.Append(arrow.Date32FromTime(ts))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case entity.TypeDatetime:
		b := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_us.(*arrow.TimestampType))
		defer b.Release()
		for _, v := range col.Values {
			if ts, ok := v.(time.Time); ok {
				b.Append(arrow.Timestamp(ts.UnixMicro()))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range col.Values {
			if s, ok := v.(string); ok {
				b.Append(s)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	}
}
