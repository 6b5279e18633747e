package services

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/domain/lifecycle"
	"github.com/yungbote/consultancy-backend/internal/domain/timesheet"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type WorkRecordInput struct {
	TaskID      *uuid.UUID      `json:"task_id"`
	UserID      *uuid.UUID      `json:"user_id"`
	StartDate   civil.Date      `json:"start_date"`
	EndDate     *civil.Date     `json:"end_date"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
}

type WorkRecordService interface {
	Create(dbc dbctx.Context, in WorkRecordInput) (*types.WorkRecord, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	WeeklySummary(dbc dbctx.Context, userID *uuid.UUID, weekStart *civil.Date) (*timesheet.WeeklySummary, error)
}

type workRecordService struct {
	db          *gorm.DB
	log         *logger.Logger
	contracts   repos.ContractRepo
	tasks       repos.TaskRepo
	workRecords repos.WorkRecordRepo
	metrics     *observability.Metrics
	events      emitter
	clock       Clock
	loc         *time.Location
}

// NewWorkRecordService resolves "today" for default weeks from clock in loc.
// A nil clock uses the system clock and a nil loc means UTC.
func NewWorkRecordService(
	db *gorm.DB,
	baseLog *logger.Logger,
	set repos.Set,
	pub events.Publisher,
	metrics *observability.Metrics,
	clock Clock,
	loc *time.Location,
) WorkRecordService {
	log := baseLog.With("service", "WorkRecordService")
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &workRecordService{
		db:          db,
		log:         log,
		contracts:   set.Contracts,
		tasks:       set.Tasks,
		workRecords: set.WorkRecords,
		metrics:     metrics,
		events:      emitter{pub: pub, metrics: metrics, log: log},
		clock:       clock,
		loc:         loc,
	}
}

func (s *workRecordService) Create(dbc dbctx.Context, in WorkRecordInput) (out *types.WorkRecord, err error) {
	dbc, span := startSpan(dbc, "WorkRecordService.Create")
	defer func() { endSpan(span, err) }()

	const op = "create work record"
	if !in.StartDate.IsValid() {
		return nil, types.Validation(op, "start_date is required")
	}
	end := in.StartDate
	if in.EndDate != nil {
		if !in.EndDate.IsValid() {
			return nil, types.Validation(op, "end_date is invalid")
		}
		end = *in.EndDate
	}
	if end.Before(in.StartDate) {
		return nil, types.Validation(op, "end_date must not be before start_date")
	}
	if in.Hours.IsNegative() {
		return nil, types.Validation(op, "hours must not be negative")
	}

	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		if in.TaskID != nil {
			task, err := s.tasks.GetByID(inner, *in.TaskID)
			if err != nil {
				return err
			}
			if task == nil {
				return types.NotFound(op, "task not found")
			}
			index := lifecycle.ContractIndex{}
			if task.ContractID != nil {
				contract, err := s.contracts.GetByID(inner, *task.ContractID)
				if err != nil {
					return err
				}
				if contract != nil {
					index[contract.ID] = contract
				}
			}
			if err := lifecycle.CanCreateWorkRecord(task, index); err != nil {
				reason := types.MessageOf(err)
				s.metrics.IncAdmissionRejected("create_work_record", reason)
				s.log.Info("admission rejected", "operation", "create_work_record", "reason", reason, "task_id", task.ID)
				return err
			}
		}
		out, err = s.workRecords.Create(inner, &types.WorkRecord{
			TaskID:      in.TaskID,
			UserID:      in.UserID,
			StartDate:   types.StoreDate(in.StartDate),
			EndDate:     types.StoreDate(end),
			Hours:       in.Hours,
			Description: strings.TrimSpace(in.Description),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityWorkRecord, out.ID, events.ActionCreated, map[string]interface{}{
		"task_id":    out.TaskID,
		"start_date": in.StartDate.String(),
		"hours":      out.Hours.String(),
	}))
	return out, nil
}

func (s *workRecordService) Delete(dbc dbctx.Context, id uuid.UUID) (err error) {
	dbc, span := startSpan(dbc, "WorkRecordService.Delete")
	defer func() { endSpan(span, err) }()

	ok, err := s.workRecords.Delete(dbc, id)
	if err != nil {
		return err
	}
	if !ok {
		return types.NotFound("delete work record", "work record not found")
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityWorkRecord, id, events.ActionDeleted, nil))
	return nil
}

// WeeklySummary aggregates one week of records. A nil weekStart means the
// Monday of the current week; a given weekStart is used as is.
func (s *workRecordService) WeeklySummary(dbc dbctx.Context, userID *uuid.UUID, weekStart *civil.Date) (out *timesheet.WeeklySummary, err error) {
	dbc, span := startSpan(dbc, "WorkRecordService.WeeklySummary")
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.IncWeeklySummary(status)
		endSpan(span, err)
	}()

	var ws civil.Date
	if weekStart != nil {
		if !weekStart.IsValid() {
			return nil, types.Validation("weekly summary", "week_start is invalid")
		}
		ws = *weekStart
	} else {
		ws = timesheet.WeekStartFor(civil.DateOf(s.clock().In(s.loc)))
	}
	span.SetAttributes(attribute.String("week_start", ws.String()))

	start, end := timesheet.WeekWindow(ws)
	records, err := s.workRecords.ListStartingBetween(dbc, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := timesheet.Summarize(userID, ws, records)
	return &summary, nil
}
