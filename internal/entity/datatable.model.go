package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataTable is the materialized form of one sheet (1:1). RowCount reflects the
// source row count as of the last materialization.
type DataTable struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SheetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"sheet_id"`
	TableName string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"table_name"`
	RowCount  int       `gorm:"default:0" json:"row_count"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Rows      []DataRow `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *DataTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
