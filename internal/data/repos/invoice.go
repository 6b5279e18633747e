package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type InvoiceRepo interface {
	Create(dbc dbctx.Context, invoice *types.Invoice) (*types.Invoice, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Invoice, error)
	UpdateStateFrom(dbc dbctx.Context, id uuid.UUID, from, to types.InvoiceState) (bool, error)
}

type invoiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceRepo {
	return &invoiceRepo{
		db:  db,
		log: baseLog.With("repo", "InvoiceRepo"),
	}
}

// Create inserts the invoice together with its Items.
func (r *invoiceRepo) Create(dbc dbctx.Context, invoice *types.Invoice) (*types.Invoice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(invoice).Error; err != nil {
		return nil, MapError("create invoice", err)
	}
	return invoice, nil
}

// GetByID returns nil, nil when the invoice does not exist.
func (r *invoiceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Invoice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Invoice
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("get invoice", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// UpdateStateFrom moves the invoice to `to` only while it is still in `from`.
// It reports false when the row is gone or its state moved underneath.
func (r *invoiceRepo) UpdateStateFrom(dbc dbctx.Context, id uuid.UUID, from, to types.InvoiceState) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Invoice{}).
		Where("id = ? AND state = ?", id, from).
		Updates(map[string]interface{}{
			"state":      to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, MapError("update invoice state", res.Error)
	}
	return res.RowsAffected > 0, nil
}
