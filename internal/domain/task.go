package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of billable work, optionally attached to a contract. Its
// effective state also depends on the contract and is never stored.
type Task struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"column:name;not null" json:"name"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id,omitempty"`
	Contract   *Contract  `gorm:"foreignKey:ContractID;references:ID" json:"contract,omitempty"`
	State      TaskState  `gorm:"column:state;not null;default:'active';index" json:"state"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "task" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.State == "" {
		t.State = TaskStateActive
	}
	return nil
}
