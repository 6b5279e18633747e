package services

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type InvoiceItemInput struct {
	TaskID      *uuid.UUID      `json:"task_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	StartDate   *civil.Date     `json:"start_date"`
	EndDate     *civil.Date     `json:"end_date"`
}

type InvoiceInput struct {
	ClientID uuid.UUID          `json:"client_id"`
	Date     *civil.Date        `json:"date"`
	State    types.InvoiceState `json:"state"`
	Items    []InvoiceItemInput `json:"items"`
}

type InvoiceService interface {
	Create(dbc dbctx.Context, in InvoiceInput) (*types.Invoice, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Invoice, error)
	UpdateState(dbc dbctx.Context, id uuid.UUID, state types.InvoiceState) (*types.Invoice, error)
}

type invoiceService struct {
	db       *gorm.DB
	log      *logger.Logger
	clients  repos.ClientRepo
	tasks    repos.TaskRepo
	invoices repos.InvoiceRepo
	events   emitter
	clock    Clock
	loc      *time.Location
}

func NewInvoiceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	set repos.Set,
	pub events.Publisher,
	metrics *observability.Metrics,
	clock Clock,
	loc *time.Location,
) InvoiceService {
	log := baseLog.With("service", "InvoiceService")
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &invoiceService{
		db:       db,
		log:      log,
		clients:  set.Clients,
		tasks:    set.Tasks,
		invoices: set.Invoices,
		events:   emitter{pub: pub, metrics: metrics, log: log},
		clock:    clock,
		loc:      loc,
	}
}

// Create writes an invoice and its items. Item prices are materialized as
// quantity * rate rounded to cents.
func (s *invoiceService) Create(dbc dbctx.Context, in InvoiceInput) (out *types.Invoice, err error) {
	dbc, span := startSpan(dbc, "InvoiceService.Create", attribute.Int("items", len(in.Items)))
	defer func() { endSpan(span, err) }()

	const op = "create invoice"
	if in.ClientID == uuid.Nil {
		return nil, types.Validation(op, "client_id is required")
	}
	state := in.State
	if state == "" {
		state = types.InvoiceStateDraft
	}
	if !state.Valid() {
		return nil, types.Validation(op, "invalid state")
	}
	date := civil.DateOf(s.clock().In(s.loc))
	if in.Date != nil {
		if !in.Date.IsValid() {
			return nil, types.Validation(op, "date is invalid")
		}
		date = *in.Date
	}

	items := make([]types.InvoiceItem, 0, len(in.Items))
	for i, it := range in.Items {
		item, err := buildInvoiceItem(it)
		if err != nil {
			return nil, types.Validation(op, fmt.Sprintf("items[%d]: %s", i, types.MessageOf(err)))
		}
		items = append(items, item)
	}

	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		client, err := s.clients.GetByID(inner, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return types.NotFound(op, "client not found")
		}
		checked := map[uuid.UUID]bool{}
		for _, it := range items {
			if it.TaskID == nil || checked[*it.TaskID] {
				continue
			}
			task, err := s.tasks.GetByID(inner, *it.TaskID)
			if err != nil {
				return err
			}
			if task == nil {
				return types.NotFound(op, "task not found")
			}
			checked[*it.TaskID] = true
		}
		out, err = s.invoices.Create(inner, &types.Invoice{
			ClientID: in.ClientID,
			Date:     types.StoreDate(date),
			State:    state,
			Items:    items,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityInvoice, out.ID, events.ActionCreated, map[string]interface{}{
		"client_id": out.ClientID,
		"state":     out.State,
		"items":     len(out.Items),
	}))
	return out, nil
}

func buildInvoiceItem(in InvoiceItemInput) (types.InvoiceItem, error) {
	const op = "invoice item"
	if in.Quantity.IsNegative() {
		return types.InvoiceItem{}, types.Validation(op, "quantity must not be negative")
	}
	if in.Rate.IsNegative() {
		return types.InvoiceItem{}, types.Validation(op, "rate must not be negative")
	}
	if in.StartDate != nil && !in.StartDate.IsValid() {
		return types.InvoiceItem{}, types.Validation(op, "start_date is invalid")
	}
	if in.EndDate != nil && !in.EndDate.IsValid() {
		return types.InvoiceItem{}, types.Validation(op, "end_date is invalid")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return types.InvoiceItem{}, types.Validation(op, "end_date must not be before start_date")
	}
	return types.InvoiceItem{
		TaskID:      in.TaskID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		Rate:        in.Rate,
		Price:       in.Quantity.Mul(in.Rate).Round(2),
		StartDate:   types.StoreDatePtr(in.StartDate),
		EndDate:     types.StoreDatePtr(in.EndDate),
	}, nil
}

func (s *invoiceService) Get(dbc dbctx.Context, id uuid.UUID) (out *types.Invoice, err error) {
	dbc, span := startSpan(dbc, "InvoiceService.Get")
	defer func() { endSpan(span, err) }()

	out, err = s.invoices.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, types.NotFound("get invoice", "invoice not found")
	}
	return out, nil
}

// UpdateState moves an invoice forward along draft -> issued -> paid.
// Repeating the current state is a no-op; moving backwards is a conflict.
func (s *invoiceService) UpdateState(dbc dbctx.Context, id uuid.UUID, state types.InvoiceState) (out *types.Invoice, err error) {
	dbc, span := startSpan(dbc, "InvoiceService.UpdateState", attribute.String("state", string(state)))
	defer func() { endSpan(span, err) }()

	const op = "update invoice state"
	if !state.Valid() {
		return nil, types.Validation(op, "invalid state")
	}

	changed := false
	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		current, err := s.invoices.GetByID(inner, id)
		if err != nil {
			return err
		}
		if current == nil {
			return types.NotFound(op, "invoice not found")
		}
		if current.State == state {
			out = current
			return nil
		}
		if state.Rank() < current.State.Rank() {
			return types.Conflict(op, fmt.Sprintf("cannot move invoice from %s back to %s", current.State, state))
		}
		ok, err := s.invoices.UpdateStateFrom(inner, id, current.State, state)
		if err != nil {
			return err
		}
		if !ok {
			again, err := s.invoices.GetByID(inner, id)
			if err != nil {
				return err
			}
			if again == nil {
				return types.NotFound(op, "invoice not found")
			}
			return types.Conflict(op, "invoice state changed concurrently")
		}
		out, err = s.invoices.GetByID(inner, id)
		if err != nil {
			return err
		}
		if out == nil {
			return types.NotFound(op, "invoice not found")
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.events.emit(dbc.Ctx, events.New(events.EntityInvoice, out.ID, events.ActionStateChanged, map[string]interface{}{
			"state": out.State,
		}))
	}
	return out, nil
}
