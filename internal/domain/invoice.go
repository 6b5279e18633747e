package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Invoice struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Date      datatypes.Date `gorm:"column:date;not null" json:"date"`
	State     InvoiceState   `gorm:"column:state;not null;default:'draft';index" json:"state"`
	Items     []InvoiceItem  `gorm:"constraint:OnDelete:CASCADE;foreignKey:InvoiceID;references:ID" json:"items,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoice" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.State == "" {
		i.State = InvoiceStateDraft
	}
	return nil
}

// InvoiceItem is one billed line. Price is materialized when the line is
// written and is the amount every rollup sums.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice     *Invoice        `gorm:"foreignKey:InvoiceID;references:ID" json:"invoice,omitempty"`
	TaskID      *uuid.UUID      `gorm:"type:uuid;index" json:"task_id,omitempty"`
	Description string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null" json:"rate"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null" json:"price"`
	StartDate   *datatypes.Date `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate     *datatypes.Date `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (InvoiceItem) TableName() string { return "invoice_item" }

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
