package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/domain/billing"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/ctxutil"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type ContractInput struct {
	ClientID    uuid.UUID           `json:"client_id"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	State       types.ContractState `json:"state"`
}

type ContractService interface {
	Create(dbc dbctx.Context, in ContractInput) (*types.Contract, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	List(dbc dbctx.Context, state string) ([]*types.Contract, error)
	UpdateState(dbc dbctx.Context, id uuid.UUID, state types.ContractState) (*types.Contract, error)
	Details(dbc dbctx.Context, id uuid.UUID) (*billing.ContractDetails, error)
}

type contractService struct {
	db           *gorm.DB
	log          *logger.Logger
	clients      repos.ClientRepo
	contracts    repos.ContractRepo
	tasks        repos.TaskRepo
	invoiceItems repos.InvoiceItemRepo
	metrics      *observability.Metrics
	events       emitter
}

func NewContractService(
	db *gorm.DB,
	baseLog *logger.Logger,
	set repos.Set,
	pub events.Publisher,
	metrics *observability.Metrics,
) ContractService {
	log := baseLog.With("service", "ContractService")
	return &contractService{
		db:           db,
		log:          log,
		clients:      set.Clients,
		contracts:    set.Contracts,
		tasks:        set.Tasks,
		invoiceItems: set.InvoiceItems,
		metrics:      metrics,
		events:       emitter{pub: pub, metrics: metrics, log: log},
	}
}

func (s *contractService) Create(dbc dbctx.Context, in ContractInput) (out *types.Contract, err error) {
	dbc, span := startSpan(dbc, "ContractService.Create")
	defer func() { endSpan(span, err) }()

	const op = "create contract"
	if in.ClientID == uuid.Nil {
		return nil, types.Validation(op, "client_id is required")
	}
	if in.Price.Valid && in.Price.Decimal.IsNegative() {
		return nil, types.Validation(op, "price must not be negative")
	}
	state := in.State
	if state == "" {
		state = types.ContractStateActive
	}
	if !state.Valid() {
		return nil, types.Validation(op, "invalid state")
	}

	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		client, err := s.clients.GetByID(inner, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return types.NotFound(op, "client not found")
		}
		out, err = s.contracts.Create(inner, &types.Contract{
			ClientID:    in.ClientID,
			Description: strings.TrimSpace(in.Description),
			Price:       in.Price,
			State:       state,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityContract, out.ID, events.ActionCreated, map[string]interface{}{
		"client_id": out.ClientID,
		"state":     out.State,
	}))
	return out, nil
}

func (s *contractService) Get(dbc dbctx.Context, id uuid.UUID) (out *types.Contract, err error) {
	dbc, span := startSpan(dbc, "ContractService.Get")
	defer func() { endSpan(span, err) }()

	out, err = s.contracts.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, types.NotFound("get contract", "contract not found")
	}
	return out, nil
}

// List filters by stored state; an empty or "all" filter returns everything.
func (s *contractService) List(dbc dbctx.Context, state string) (out []*types.Contract, err error) {
	dbc, span := startSpan(dbc, "ContractService.List")
	defer func() { endSpan(span, err) }()

	raw := strings.ToLower(strings.TrimSpace(state))
	if raw == "" || raw == "all" {
		return s.contracts.List(dbc, nil)
	}
	cs := types.ContractState(raw)
	if !cs.Valid() {
		return nil, types.Validation("list contracts", "state must be active, complete or all")
	}
	return s.contracts.List(dbc, &cs)
}

func (s *contractService) UpdateState(dbc dbctx.Context, id uuid.UUID, state types.ContractState) (out *types.Contract, err error) {
	dbc, span := startSpan(dbc, "ContractService.UpdateState", attribute.String("state", string(state)))
	defer func() { endSpan(span, err) }()

	const op = "update contract state"
	if !state.Valid() {
		return nil, types.Validation(op, "invalid state")
	}
	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		ok, err := s.contracts.UpdateState(inner, id, state)
		if err != nil {
			return err
		}
		if !ok {
			return types.NotFound(op, "contract not found")
		}
		out, err = s.contracts.GetByID(inner, id)
		if err != nil {
			return err
		}
		if out == nil {
			return types.NotFound(op, "contract not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityContract, out.ID, events.ActionStateChanged, map[string]interface{}{
		"state": out.State,
	}))
	return out, nil
}

// Details computes the financial rollup for one contract from freshly read
// tasks and invoice items.
func (s *contractService) Details(dbc dbctx.Context, id uuid.UUID) (out *billing.ContractDetails, err error) {
	dbc, span := startSpan(dbc, "ContractService.Details", attribute.String("contract_id", id.String()))
	started := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = string(types.CodeOf(err))
		}
		s.metrics.ObserveContractRollup(status, time.Since(started))
		endSpan(span, err)
	}()

	contract, err := s.contracts.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, types.NotFound("contract details", "contract not found")
	}
	tasks, err := s.tasks.ListByContractID(dbc, contract.ID)
	if err != nil {
		return nil, err
	}
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	items, err := s.invoiceItems.ListByTaskIDs(dbc, taskIDs)
	if err != nil {
		return nil, err
	}

	details := billing.ComputeContractDetails(contract, tasks, items)
	s.log.Debug("contract rollup computed", append([]interface{}{
		"contract_id", contract.ID,
		"tasks", len(tasks),
		"items", len(items),
	}, ctxutil.LogFields(dbc.Ctx)...)...)
	return &details, nil
}
