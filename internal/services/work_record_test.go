package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/consultancy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/domain/lifecycle"
	"github.com/yungbote/consultancy-backend/internal/domain/timesheet"
	"github.com/yungbote/consultancy-backend/internal/events"
)

// Wednesday 13 March 2024.
var midweek = time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)

func TestWorkRecordServiceCreateAdmission(t *testing.T) {
	h := newHarness(t, midweek)
	client := testutil.SeedClient(t, h.ctx, h.tx, "Acme")
	open := testutil.SeedContract(t, h.ctx, h.tx, client.ID, types.ContractStateActive, "")
	closed := testutil.SeedContract(t, h.ctx, h.tx, client.ID, types.ContractStateComplete, "")
	doneTask := testutil.SeedTask(t, h.ctx, h.tx, &open.ID, "done", types.TaskStateComplete)
	orphaned := testutil.SeedTask(t, h.ctx, h.tx, &closed.ID, "inherited", types.TaskStateActive)
	day := testutil.Day(2024, time.March, 11)

	_, err := h.workRecords.Create(h.dbc, WorkRecordInput{TaskID: &doneTask.ID, StartDate: day, Hours: decimal.NewFromInt(1)})
	require.True(t, types.IsCode(err, types.CodeConflict), "complete task: got=%v", err)
	require.Equal(t, lifecycle.ReasonTaskComplete, types.MessageOf(err))

	_, err = h.workRecords.Create(h.dbc, WorkRecordInput{TaskID: &orphaned.ID, StartDate: day, Hours: decimal.NewFromInt(1)})
	require.True(t, types.IsCode(err, types.CodeConflict), "complete contract: got=%v", err)
	require.Equal(t, lifecycle.ReasonContractComplete, types.MessageOf(err))

	require.Equal(t, float64(1), h.metrics.AdmissionRejected("create_work_record", lifecycle.ReasonTaskComplete))
	require.Equal(t, float64(1), h.metrics.AdmissionRejected("create_work_record", lifecycle.ReasonContractComplete))
	require.Empty(t, h.events.Events())
}

func TestWorkRecordServiceCreate(t *testing.T) {
	h := newHarness(t, midweek)
	task := testutil.SeedTask(t, h.ctx, h.tx, nil, "Design", types.TaskStateActive)
	user := uuid.New()
	day := testutil.Day(2024, time.March, 11)

	rec, err := h.workRecords.Create(h.dbc, WorkRecordInput{
		TaskID:    &task.ID,
		UserID:    &user,
		StartDate: day,
		Hours:     decimal.RequireFromString("4.5"),
	})
	require.NoError(t, err)
	require.Equal(t, day, types.CivilDate(rec.EndDate), "end date defaults to start date")
	ev := h.lastEvent(t)
	require.Equal(t, events.EntityWorkRecord, ev.Entity)
	require.Equal(t, events.ActionCreated, ev.Action)

	noTask, err := h.workRecords.Create(h.dbc, WorkRecordInput{UserID: &user, StartDate: day, Hours: decimal.NewFromInt(2)})
	require.NoError(t, err)
	require.Nil(t, noTask.TaskID)
}

func TestWorkRecordServiceCreateValidation(t *testing.T) {
	h := newHarness(t, midweek)
	day := testutil.Day(2024, time.March, 11)
	before := testutil.Day(2024, time.March, 10)
	missing := uuid.New()

	cases := []struct {
		name string
		in   WorkRecordInput
		code types.ErrorCode
	}{
		{"negative hours", WorkRecordInput{StartDate: day, Hours: decimal.NewFromInt(-1)}, types.CodeValidation},
		{"end before start", WorkRecordInput{StartDate: day, EndDate: &before, Hours: decimal.NewFromInt(1)}, types.CodeValidation},
		{"missing start", WorkRecordInput{Hours: decimal.NewFromInt(1)}, types.CodeValidation},
		{"unknown task", WorkRecordInput{TaskID: &missing, StartDate: day, Hours: decimal.NewFromInt(1)}, types.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.workRecords.Create(h.dbc, tc.in)
			if !types.IsCode(err, tc.code) {
				t.Fatalf("want code=%q got=%v", tc.code, err)
			}
		})
	}
}

func TestWorkRecordServiceDelete(t *testing.T) {
	h := newHarness(t, midweek)
	rec := testutil.SeedWorkRecord(t, h.ctx, h.tx, uuid.New(), nil, testutil.Day(2024, time.March, 11), "1", midweek)

	require.NoError(t, h.workRecords.Delete(h.dbc, rec.ID))
	require.Equal(t, events.ActionDeleted, h.lastEvent(t).Action)

	err := h.workRecords.Delete(h.dbc, rec.ID)
	require.True(t, types.IsCode(err, types.CodeNotFound), "second delete: got=%v", err)
}

func TestWorkRecordServiceWeeklySummaryDefaultsToCurrentWeek(t *testing.T) {
	h := newHarness(t, midweek)
	user := uuid.New()
	other := uuid.New()
	task := testutil.SeedTask(t, h.ctx, h.tx, nil, "Design", types.TaskStateActive)
	mon := testutil.Day(2024, time.March, 11)
	wed := testutil.Day(2024, time.March, 13)
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, &task.ID, mon, "4.5", base)
	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, nil, mon, "5.0", base.Add(time.Minute))
	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, &task.ID, wed, "6.5", base.Add(2*time.Minute))
	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, &task.ID, testutil.Day(2024, time.March, 18), "8", base)
	testutil.SeedWorkRecord(t, h.ctx, h.tx, other, &task.ID, wed, "3", base)

	s, err := h.workRecords.WeeklySummary(h.dbc, &user, nil)
	require.NoError(t, err)
	require.Equal(t, mon, s.WeekStartDate)
	require.Equal(t, testutil.Day(2024, time.March, 17), s.WeekEndDate)
	require.Len(t, s.DailySummaries, timesheet.DaysPerWeek)
	require.True(t, s.WeekTotalHours.Equal(decimal.NewFromInt(16)), "week total: got=%s", s.WeekTotalHours)
	require.True(t, s.DailySummaries[0].TotalHours.Equal(decimal.RequireFromString("9.5")))
	require.True(t, s.DailySummaries[1].TotalHours.IsZero())
	require.True(t, s.DailySummaries[2].TotalHours.Equal(decimal.RequireFromString("6.5")))

	require.Len(t, s.TaskWeeklyTotals, 2)
	require.Equal(t, "Design", s.TaskWeeklyTotals[0].TaskName)
	require.True(t, s.TaskWeeklyTotals[0].Hours.Equal(decimal.NewFromInt(11)))
	require.Equal(t, timesheet.NoTaskLabel, s.TaskWeeklyTotals[1].TaskName)
	require.Nil(t, s.TaskWeeklyTotals[1].TaskID)

	daily := decimal.Zero
	for _, d := range s.DailySummaries {
		daily = daily.Add(d.TotalHours)
	}
	require.True(t, daily.Equal(s.WeekTotalHours))
}

func TestWorkRecordServiceWeeklySummaryKeepsGivenStart(t *testing.T) {
	h := newHarness(t, midweek)
	user := uuid.New()
	thu := testutil.Day(2024, time.March, 14)
	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, nil, testutil.Day(2024, time.March, 20), "2", midweek)
	testutil.SeedWorkRecord(t, h.ctx, h.tx, user, nil, testutil.Day(2024, time.March, 21), "7", midweek)

	s, err := h.workRecords.WeeklySummary(h.dbc, &user, &thu)
	require.NoError(t, err)
	require.Equal(t, thu, s.WeekStartDate)
	require.Equal(t, testutil.Day(2024, time.March, 20), s.WeekEndDate)
	require.True(t, s.WeekTotalHours.Equal(decimal.NewFromInt(2)), "week total: got=%s", s.WeekTotalHours)
}
