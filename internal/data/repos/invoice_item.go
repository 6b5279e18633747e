package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type InvoiceItemRepo interface {
	ListByTaskIDs(dbc dbctx.Context, taskIDs []uuid.UUID) ([]*types.InvoiceItem, error)
}

type invoiceItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceItemRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceItemRepo {
	return &invoiceItemRepo{
		db:  db,
		log: baseLog.With("repo", "InvoiceItemRepo"),
	}
}

// ListByTaskIDs returns the items billed against any of taskIDs with their
// parent Invoice preloaded.
func (r *invoiceItemRepo) ListByTaskIDs(dbc dbctx.Context, taskIDs []uuid.UUID) ([]*types.InvoiceItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.InvoiceItem{}
	if len(taskIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Invoice").
		Where("task_id IN ?", taskIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, MapError("list invoice items", err)
	}
	return out, nil
}
