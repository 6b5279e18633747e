package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, task *types.Task) (*types.Task, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Task, error)
	List(dbc dbctx.Context, contractID *uuid.UUID) ([]*types.Task, error)
	ListByContractID(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Task, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{
		db:  db,
		log: baseLog.With("repo", "TaskRepo"),
	}
}

func (r *taskRepo) Create(dbc dbctx.Context, task *types.Task) (*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Contract").Create(task).Error; err != nil {
		return nil, MapError("create task", err)
	}
	return task, nil
}

// GetByID returns nil, nil when the task does not exist.
func (r *taskRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Task
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("get task", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// List returns every task, or only those of contractID when set, in creation
// order.
func (r *taskRepo) List(dbc dbctx.Context, contractID *uuid.UUID) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.Task{})
	if contractID != nil {
		q = q.Where("contract_id = ?", *contractID)
	}
	out := []*types.Task{}
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, MapError("list tasks", err)
	}
	return out, nil
}

func (r *taskRepo) ListByContractID(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Task, error) {
	if contractID == uuid.Nil {
		return []*types.Task{}, nil
	}
	return r.List(dbc, &contractID)
}

// UpdateFields reports false when no row matched id.
func (r *taskRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Task{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, MapError("update task", res.Error)
	}
	return res.RowsAffected > 0, nil
}
