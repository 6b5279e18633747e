package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientService interface {
	Create(dbc dbctx.Context, in ClientInput) (*types.Client, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Client, error)
}

type clientService struct {
	db      *gorm.DB
	log     *logger.Logger
	clients repos.ClientRepo
	events  emitter
}

func NewClientService(db *gorm.DB, baseLog *logger.Logger, clients repos.ClientRepo, pub events.Publisher, metrics *observability.Metrics) ClientService {
	log := baseLog.With("service", "ClientService")
	return &clientService{
		db:      db,
		log:     log,
		clients: clients,
		events:  emitter{pub: pub, metrics: metrics, log: log},
	}
}

func (s *clientService) Create(dbc dbctx.Context, in ClientInput) (out *types.Client, err error) {
	dbc, span := startSpan(dbc, "ClientService.Create")
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("create client", "name is required")
	}
	out, err = s.clients.Create(dbc, &types.Client{Name: name, Email: strings.TrimSpace(in.Email)})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityClient, out.ID, events.ActionCreated, nil))
	return out, nil
}

func (s *clientService) Get(dbc dbctx.Context, id uuid.UUID) (out *types.Client, err error) {
	dbc, span := startSpan(dbc, "ClientService.Get")
	defer func() { endSpan(span, err) }()

	out, err = s.clients.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, types.NotFound("get client", "client not found")
	}
	return out, nil
}
