package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(dbc dbctx.Context, client *types.Client) (*types.Client, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{
		db:  db,
		log: baseLog.With("repo", "ClientRepo"),
	}
}

func (r *clientRepo) Create(dbc dbctx.Context, client *types.Client) (*types.Client, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(client).Error; err != nil {
		return nil, MapError("create client", err)
	}
	return client, nil
}

// GetByID returns nil, nil when the client does not exist.
func (r *clientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Client
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, MapError("get client", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
