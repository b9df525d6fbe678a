package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataRow is one materialized spreadsheet row, keyed by (table_id, row_index).
type DataRow struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TableID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_row_table_index" json:"table_id"`
	RowIndex  int        `gorm:"not null;uniqueIndex:idx_row_table_index" json:"row_index"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Cells     []DataCell `gorm:"foreignKey:RowID;constraint:OnDelete:CASCADE" json:"cells,omitempty"`
}

func (r *DataRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
