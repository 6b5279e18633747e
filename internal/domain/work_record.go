package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkRecord is a slice of logged time.
type WorkRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID      *uuid.UUID      `gorm:"type:uuid;index" json:"task_id,omitempty"`
	Task        *Task           `gorm:"foreignKey:TaskID;references:ID" json:"task,omitempty"`
	UserID      *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	StartDate   datatypes.Date  `gorm:"column:start_date;not null;index" json:"start_date"`
	EndDate     datatypes.Date  `gorm:"column:end_date;not null" json:"end_date"`
	Hours       decimal.Decimal `gorm:"column:hours;type:numeric(8,2);not null" json:"hours"`
	Description string          `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (WorkRecord) TableName() string { return "work_record" }

func (w *WorkRecord) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
