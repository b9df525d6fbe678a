package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExcelFile is an uploaded spreadsheet. Path is relative to the file store
// root; the stored object must be removed when the record is deleted.
type ExcelFile struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Path        string    `gorm:"type:varchar(512);not null" json:"path"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	Processed   bool      `gorm:"type:boolean;default:false" json:"processed"`
	Error       string    `gorm:"type:text" json:"error"`
	Sheets      []Sheet   `gorm:"foreignKey:ExcelFileID;constraint:OnDelete:CASCADE" json:"sheets,omitempty"`
}

func (f *ExcelFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
