package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract is an engagement with a client. Price is optional; when absent no
// remaining amount can be derived for the contract.
type Contract struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	Description string              `gorm:"column:description;type:text" json:"description"`
	Price       decimal.NullDecimal `gorm:"column:price;type:numeric(14,2)" json:"price"`
	State       ContractState       `gorm:"column:state;not null;default:'active';index" json:"state"`
	CreatedAt   time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null" json:"updated_at"`
}

func (Contract) TableName() string { return "contract" }

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.State == "" {
		c.State = ContractStateActive
	}
	return nil
}
