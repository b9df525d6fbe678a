package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataType is the canonical semantic type inferred for a column.
type DataType string

const (
	TypeString   DataType = "string"
	TypeInteger  DataType = "integer"
	TypeFloat    DataType = "float"
	TypeDate     DataType = "date"
	TypeDatetime DataType = "datetime"
	TypeBoolean  DataType = "boolean"
	TypeUnknown  DataType = "unknown"
)

// ColumnDefinition describes one column of a sheet. Name is the normalized,
// storage-safe identifier; OriginalName preserves the raw header. Uniqueness
// is enforced on (sheet_id, column_index), not on Name.
type ColumnDefinition struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SheetID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_column_sheet_index" json:"sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	ColumnIndex  int       `gorm:"not null;uniqueIndex:idx_column_sheet_index" json:"column_index"`
	DataType     DataType  `gorm:"type:varchar(20);not null" json:"data_type"`
	Nullable     bool      `gorm:"type:boolean;default:true" json:"nullable"`
}

func (c *ColumnDefinition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
