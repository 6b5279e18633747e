package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

// Set holds one repo per persisted entity, all sharing a connection.
type Set struct {
	Clients      ClientRepo
	Contracts    ContractRepo
	Tasks        TaskRepo
	WorkRecords  WorkRecordRepo
	Invoices     InvoiceRepo
	InvoiceItems InvoiceItemRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Clients:      NewClientRepo(db, baseLog),
		Contracts:    NewContractRepo(db, baseLog),
		Tasks:        NewTaskRepo(db, baseLog),
		WorkRecords:  NewWorkRecordRepo(db, baseLog),
		Invoices:     NewInvoiceRepo(db, baseLog),
		InvoiceItems: NewInvoiceItemRepo(db, baseLog),
	}
}
