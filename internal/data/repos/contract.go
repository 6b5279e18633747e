package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type ContractRepo interface {
	Create(dbc dbctx.Context, contract *types.Contract) (*types.Contract, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Contract, error)
	List(dbc dbctx.Context, state *types.ContractState) ([]*types.Contract, error)
	UpdateState(dbc dbctx.Context, id uuid.UUID, state types.ContractState) (bool, error)
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{
		db:  db,
		log: baseLog.With("repo", "ContractRepo"),
	}
}

func (r *contractRepo) Create(dbc dbctx.Context, contract *types.Contract) (*types.Contract, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(contract).Error; err != nil {
		return nil, MapError("create contract", err)
	}
	return contract, nil
}

// GetByID returns nil, nil when the contract does not exist.
func (r *contractRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Contract
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("get contract", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *contractRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Contract, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Contract{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, MapError("get contracts", err)
	}
	return out, nil
}

func (r *contractRepo) List(dbc dbctx.Context, state *types.ContractState) ([]*types.Contract, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.Contract{})
	if state != nil {
		q = q.Where("state = ?", *state)
	}
	out := []*types.Contract{}
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, MapError("list contracts", err)
	}
	return out, nil
}

// UpdateState reports false when no row matched id.
func (r *contractRepo) UpdateState(dbc dbctx.Context, id uuid.UUID, state types.ContractState) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, MapError("update contract state", res.Error)
	}
	return res.RowsAffected > 0, nil
}
