package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sheet is one worksheet of an uploaded file, keyed by (excel_file_id, name).
type Sheet struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ExcelFileID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_sheet_file_name" json:"excel_file_id"`
	Name        string             `gorm:"type:varchar(255);not null;uniqueIndex:idx_sheet_file_name" json:"name"`
	RowCount    int                `gorm:"default:0" json:"row_count"`
	Processed   bool               `gorm:"type:boolean;default:false" json:"processed"`
	Columns     []ColumnDefinition `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
}

func (s *Sheet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
