package handlers

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/domain/billing"
	"github.com/yungbote/consultancy-backend/internal/domain/timesheet"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type fakeContracts struct {
	details    *billing.ContractDetails
	err        error
	lastState  types.ContractState
	lastFilter string
}

func (f *fakeContracts) Create(dbctx.Context, services.ContractInput) (*types.Contract, error) {
	return &types.Contract{ID: uuid.New()}, f.err
}

func (f *fakeContracts) Get(_ dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Contract{ID: id}, nil
}

func (f *fakeContracts) List(_ dbctx.Context, state string) ([]*types.Contract, error) {
	f.lastFilter = state
	return []*types.Contract{}, f.err
}

func (f *fakeContracts) UpdateState(_ dbctx.Context, id uuid.UUID, state types.ContractState) (*types.Contract, error) {
	f.lastState = state
	if f.err != nil {
		return nil, f.err
	}
	return &types.Contract{ID: id, State: state}, nil
}

func (f *fakeContracts) Details(dbctx.Context, uuid.UUID) (*billing.ContractDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

type fakeTasks struct {
	err            error
	lastContractID *uuid.UUID
	lastState      string
	lastPatch      services.TaskPatch
}

func (f *fakeTasks) Create(dbctx.Context, services.TaskInput) (*types.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Task{ID: uuid.New()}, nil
}

func (f *fakeTasks) Get(_ dbctx.Context, id uuid.UUID) (*services.TaskView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.TaskView{Task: &types.Task{ID: id}, EffectiveState: types.TaskStateActive}, nil
}

func (f *fakeTasks) List(_ dbctx.Context, contractID *uuid.UUID, state string) ([]services.TaskView, error) {
	f.lastContractID = contractID
	f.lastState = state
	return []services.TaskView{}, f.err
}

func (f *fakeTasks) Update(_ dbctx.Context, id uuid.UUID, patch services.TaskPatch) (*types.Task, error) {
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return &types.Task{ID: id}, nil
}

type fakeWorkRecords struct {
	err           error
	lastUserID    *uuid.UUID
	lastWeekStart *civil.Date
	deleted       []uuid.UUID
}

func (f *fakeWorkRecords) Create(dbctx.Context, services.WorkRecordInput) (*types.WorkRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.WorkRecord{ID: uuid.New()}, nil
}

func (f *fakeWorkRecords) Delete(_ dbctx.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeWorkRecords) WeeklySummary(_ dbctx.Context, userID *uuid.UUID, weekStart *civil.Date) (*timesheet.WeeklySummary, error) {
	f.lastUserID = userID
	f.lastWeekStart = weekStart
	if f.err != nil {
		return nil, f.err
	}
	ws := civil.Date{Year: 2024, Month: 3, Day: 11}
	if weekStart != nil {
		ws = *weekStart
	}
	s := timesheet.Summarize(userID, ws, nil)
	return &s, nil
}
