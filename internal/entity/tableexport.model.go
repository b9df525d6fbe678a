package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportFormat is a supported export artifact format.
type ExportFormat string

const (
	FormatParquet ExportFormat = "parquet"
	FormatCSV     ExportFormat = "csv"
	FormatExcel   ExportFormat = "excel"
	FormatJSON    ExportFormat = "json"
)

// ParseExportFormat validates a raw format token.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(s) {
	case FormatParquet, FormatCSV, FormatExcel, FormatJSON:
		return ExportFormat(s), true
	}
	return "", false
}

// Ext returns the artifact file extension for the format.
func (f ExportFormat) Ext() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatExcel:
		return "xlsx"
	case FormatJSON:
		return "json"
	}
	return "bin"
}

// TableExport is an append-only record of one produced export artifact.
type TableExport struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	TableID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"table_id"`
	Path      string       `gorm:"type:varchar(512);not null" json:"path"`
	Format    ExportFormat `gorm:"type:varchar(10);not null" json:"format"`
	FileSize  int64        `gorm:"type:bigint;default:0" json:"file_size"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (e *TableExport) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// FileSizeDisplay renders FileSize as a human-readable string.
func (e *TableExport) FileSizeDisplay() string {
	size := float64(e.FileSize)
	for _, unit := range []string{"B", "KB", "MB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f GB", size)
}
