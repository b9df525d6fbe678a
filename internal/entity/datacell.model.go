package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataCell holds one value in exactly one of six typed slots. The populated
// slot matches the column's declared DataType, except when coercion fell back
// to StringValue to avoid losing an unparseable source value.
type DataCell struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	RowID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"row_id"`
	ColumnDefinitionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"column_definition_id"`
	ColumnDefinition   *ColumnDefinition `gorm:"foreignKey:ColumnDefinitionID;constraint:OnDelete:CASCADE" json:"-"`

	StringValue   *string    `gorm:"type:text" json:"string_value,omitempty"`
	IntegerValue  *int64     `gorm:"type:bigint" json:"integer_value,omitempty"`
	FloatValue    *float64   `json:"float_value,omitempty"`
	DateValue     *time.Time `json:"date_value,omitempty"`
	DatetimeValue *time.Time `json:"datetime_value,omitempty"`
	BooleanValue  *bool      `gorm:"type:boolean" json:"boolean_value,omitempty"`
}

func (c *DataCell) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Value resolves the cell through its loaded ColumnDefinition. Returns nil
// when the definition is not preloaded.
func (c *DataCell) Value() any {
	if c.ColumnDefinition == nil {
		return nil
	}
	return c.ValueFor(c.ColumnDefinition.DataType)
}

// ValueFor reads the slot selected by the declared column type. A fallback
// value stored in StringValue under a non-string type reads as nil here; the
// raw text stays reachable through the StringValue field itself.
func (c *DataCell) ValueFor(t DataType) any {
	switch t {
	case TypeString, TypeUnknown:
		if c.StringValue != nil {
			return *c.StringValue
		}
	case TypeInteger:
		if c.IntegerValue != nil {
			return *c.IntegerValue
		}
	case TypeFloat:
		if c.FloatValue != nil {
			return *c.FloatValue
		}
	case TypeDate:
		if c.DateValue != nil {
			return *c.DateValue
		}
	case TypeDatetime:
		if c.DatetimeValue != nil {
			return *c.DatetimeValue
		}
	case TypeBoolean:
		if c.BooleanValue != nil {
			return *c.BooleanValue
		}
	}
	return nil
}
