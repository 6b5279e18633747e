package repos

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type WorkRecordRepo interface {
	Create(dbc dbctx.Context, record *types.WorkRecord) (*types.WorkRecord, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WorkRecord, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ListStartingBetween(dbc dbctx.Context, userID *uuid.UUID, start, end civil.Date) ([]*types.WorkRecord, error)
}

type workRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkRecordRepo(db *gorm.DB, baseLog *logger.Logger) WorkRecordRepo {
	return &workRecordRepo{
		db:  db,
		log: baseLog.With("repo", "WorkRecordRepo"),
	}
}

func (r *workRecordRepo) Create(dbc dbctx.Context, record *types.WorkRecord) (*types.WorkRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Task").Create(record).Error; err != nil {
		return nil, MapError("create work record", err)
	}
	return record, nil
}

// GetByID returns nil, nil when the record does not exist.
func (r *workRecordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.WorkRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.WorkRecord
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Task").
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("get work record", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *workRecordRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.WorkRecord{})
	if res.Error != nil {
		return false, MapError("delete work record", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListStartingBetween returns records whose start date falls in the inclusive
// range, with their task preloaded. A nil userID matches every user. Rows are
// ordered by start date, then creation time, then id.
func (r *workRecordRepo) ListStartingBetween(dbc dbctx.Context, userID *uuid.UUID, start, end civil.Date) ([]*types.WorkRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Preload("Task").
		Where("start_date >= ? AND start_date <= ?", types.StoreDate(start), types.StoreDate(end))
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	out := []*types.WorkRecord{}
	if err := q.Order("start_date ASC, created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, MapError("list work records", err)
	}
	return out, nil
}
