package services

import (
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/domain/lifecycle"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

type TaskInput struct {
	Name       string          `json:"name"`
	ContractID *uuid.UUID      `json:"contract_id"`
	State      types.TaskState `json:"state"`
}

type TaskPatch struct {
	Name  OptionalString `json:"name"`
	State OptionalString `json:"state"`
}

// TaskView is a task as read, with its derived effective state.
type TaskView struct {
	*types.Task
	EffectiveState types.TaskState `json:"effective_state"`
}

type TaskService interface {
	Create(dbc dbctx.Context, in TaskInput) (*types.Task, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*TaskView, error)
	List(dbc dbctx.Context, contractID *uuid.UUID, state string) ([]TaskView, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch TaskPatch) (*types.Task, error)
}

type taskService struct {
	db        *gorm.DB
	log       *logger.Logger
	contracts repos.ContractRepo
	tasks     repos.TaskRepo
	metrics   *observability.Metrics
	events    emitter
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	set repos.Set,
	pub events.Publisher,
	metrics *observability.Metrics,
) TaskService {
	log := baseLog.With("service", "TaskService")
	return &taskService{
		db:        db,
		log:       log,
		contracts: set.Contracts,
		tasks:     set.Tasks,
		metrics:   metrics,
		events:    emitter{pub: pub, metrics: metrics, log: log},
	}
}

func (s *taskService) Create(dbc dbctx.Context, in TaskInput) (out *types.Task, err error) {
	dbc, span := startSpan(dbc, "TaskService.Create")
	defer func() { endSpan(span, err) }()

	const op = "create task"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation(op, "name is required")
	}
	state := in.State
	if state == "" {
		state = types.TaskStateActive
	}
	if !state.Valid() {
		return nil, types.Validation(op, "invalid state")
	}

	// The parent is read and checked in the same transaction as the insert
	// but without a row lock; a concurrent completion can still slip in.
	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		if in.ContractID != nil {
			contract, err := s.contracts.GetByID(inner, *in.ContractID)
			if err != nil {
				return err
			}
			if contract == nil {
				return types.NotFound(op, "contract not found")
			}
			if err := lifecycle.CanCreateTask(contract); err != nil {
				s.rejected("create_task", err, contract.ID)
				return err
			}
		}
		out, err = s.tasks.Create(inner, &types.Task{
			Name:       name,
			ContractID: in.ContractID,
			State:      state,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityTask, out.ID, events.ActionCreated, map[string]interface{}{
		"contract_id": out.ContractID,
		"state":       out.State,
	}))
	return out, nil
}

func (s *taskService) Get(dbc dbctx.Context, id uuid.UUID) (out *TaskView, err error) {
	dbc, span := startSpan(dbc, "TaskService.Get")
	defer func() { endSpan(span, err) }()

	task, err := s.tasks.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, types.NotFound("get task", "task not found")
	}
	index, err := s.parentIndex(dbc, []*types.Task{task})
	if err != nil {
		return nil, err
	}
	view := newTaskView(task, index)
	return &view, nil
}

// List returns tasks, optionally of one contract, filtered by effective
// state: "active" (default), "complete" or "all".
func (s *taskService) List(dbc dbctx.Context, contractID *uuid.UUID, state string) (out []TaskView, err error) {
	dbc, span := startSpan(dbc, "TaskService.List", attribute.String("state", state))
	defer func() { endSpan(span, err) }()

	filter, err := lifecycle.ParseStateFilter(state)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(dbc, contractID)
	if err != nil {
		return nil, err
	}
	index, err := s.parentIndex(dbc, tasks)
	if err != nil {
		return nil, err
	}
	contracts := make([]*types.Contract, 0, len(index))
	for _, c := range index {
		contracts = append(contracts, c)
	}

	kept := filter.Apply(tasks, contracts)
	out = make([]TaskView, 0, len(kept))
	for _, t := range kept {
		out = append(out, newTaskView(t, index))
	}
	return out, nil
}

func (s *taskService) Update(dbc dbctx.Context, id uuid.UUID, patch TaskPatch) (out *types.Task, err error) {
	dbc, span := startSpan(dbc, "TaskService.Update")
	defer func() { endSpan(span, err) }()

	const op = "update task"
	updates := map[string]interface{}{}
	if patch.Name.Set {
		if patch.Name.Value == nil || *patch.Name.Value == "" {
			return nil, types.Validation(op, "name must not be empty")
		}
		updates["name"] = *patch.Name.Value
	}
	if patch.State.Set {
		if patch.State.Value == nil {
			return nil, types.Validation(op, "state must not be null")
		}
		st := types.TaskState(strings.ToLower(*patch.State.Value))
		if !st.Valid() {
			return nil, types.Validation(op, "invalid state")
		}
		updates["state"] = st
	}
	if len(updates) == 0 {
		return nil, types.Validation(op, "nothing to update")
	}

	err = runInTx(s.db, dbc, func(inner dbctx.Context) error {
		ok, err := s.tasks.UpdateFields(inner, id, updates)
		if err != nil {
			return err
		}
		if !ok {
			return types.NotFound(op, "task not found")
		}
		out, err = s.tasks.GetByID(inner, id)
		if err != nil {
			return err
		}
		if out == nil {
			return types.NotFound(op, "task not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	action := events.ActionUpdated
	if _, ok := updates["state"]; ok {
		action = events.ActionStateChanged
	}
	s.events.emit(dbc.Ctx, events.New(events.EntityTask, out.ID, action, map[string]interface{}{
		"state": out.State,
	}))
	return out, nil
}

// parentIndex loads the contracts referenced by tasks. Missing contracts are
// simply absent from the index.
func (s *taskService) parentIndex(dbc dbctx.Context, tasks []*types.Task) (lifecycle.ContractIndex, error) {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, t := range tasks {
		if t.ContractID == nil || seen[*t.ContractID] {
			continue
		}
		seen[*t.ContractID] = true
		ids = append(ids, *t.ContractID)
	}
	contracts, err := s.contracts.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	return lifecycle.IndexContracts(contracts), nil
}

func (s *taskService) rejected(operation string, err error, contractID uuid.UUID) {
	reason := types.MessageOf(err)
	s.metrics.IncAdmissionRejected(operation, reason)
	s.log.Info("admission rejected", "operation", operation, "reason", reason, "contract_id", contractID)
}

func newTaskView(t *types.Task, lookup lifecycle.ContractLookup) TaskView {
	state := types.TaskStateComplete
	if lifecycle.EffectiveActive(t, lookup) {
		state = types.TaskStateActive
	}
	return TaskView{Task: t, EffectiveState: state}
}
