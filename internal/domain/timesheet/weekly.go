// Package timesheet buckets work records into a Monday-first week and totals
// hours per day and per task.
package timesheet

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

const (
	DaysPerWeek = 7

	NoTaskLabel      = "No Task"
	UnknownTaskLabel = "Unknown Task"
)

type TaskHours struct {
	TaskID   *uuid.UUID      `json:"task_id"`
	TaskName string          `json:"task_name"`
	Hours    decimal.Decimal `json:"hours"`
}

type DailySummary struct {
	Date       civil.Date      `json:"date"`
	TaskHours  []TaskHours     `json:"task_hours"`
	TotalHours decimal.Decimal `json:"total_hours"`
}

type WeeklySummary struct {
	WeekStartDate    civil.Date      `json:"week_start_date"`
	WeekEndDate      civil.Date      `json:"week_end_date"`
	UserID           *uuid.UUID      `json:"user_id"`
	DailySummaries   []DailySummary  `json:"daily_summaries"`
	TaskWeeklyTotals []TaskHours     `json:"task_weekly_totals"`
	WeekTotalHours   decimal.Decimal `json:"week_total_hours"`
}

// WeekStartFor returns the Monday on or before today.
func WeekStartFor(today civil.Date) civil.Date {
	wd := today.In(time.UTC).Weekday()
	offset := (DaysPerWeek + (int(wd) - int(time.Monday))) % DaysPerWeek
	return today.AddDays(-offset)
}

// WeekWindow returns the inclusive range starting at weekStart. weekStart is
// used as given, it is not snapped to a Monday.
func WeekWindow(weekStart civil.Date) (civil.Date, civil.Date) {
	return weekStart, weekStart.AddDays(DaysPerWeek - 1)
}

func inRange(d, start, end civil.Date) bool {
	return !d.Before(start) && !d.After(end)
}

// SelectRecords keeps records whose start date lies in [start, end] and, when
// userID is set, that belong to that user. Order is preserved.
func SelectRecords(records []*domain.WorkRecord, userID *uuid.UUID, start, end civil.Date) []*domain.WorkRecord {
	out := make([]*domain.WorkRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if !inRange(domain.CivilDate(r.StartDate), start, end) {
			continue
		}
		if userID != nil && (r.UserID == nil || *r.UserID != *userID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize builds the week starting at weekStart. The result always holds
// seven daily buckets, Monday first when weekStart is a Monday.
func Summarize(userID *uuid.UUID, weekStart civil.Date, records []*domain.WorkRecord) WeeklySummary {
	start, end := WeekWindow(weekStart)
	week := SelectRecords(records, userID, start, end)

	days := make([]DailySummary, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		d := start.AddDays(i)
		var onDay []*domain.WorkRecord
		for _, r := range week {
			if domain.CivilDate(r.StartDate) == d {
				onDay = append(onDay, r)
			}
		}
		days = append(days, DailySummary{
			Date:       d,
			TaskHours:  GroupHoursByTask(onDay),
			TotalHours: SumHours(onDay),
		})
	}

	return WeeklySummary{
		WeekStartDate:    start,
		WeekEndDate:      end,
		UserID:           userID,
		DailySummaries:   days,
		TaskWeeklyTotals: GroupHoursByTask(week),
		WeekTotalHours:   SumHours(week),
	}
}

// GroupHoursByTask sums hours per task id in order of first appearance.
// Records without a task share one "No Task" group.
func GroupHoursByTask(records []*domain.WorkRecord) []TaskHours {
	out := make([]TaskHours, 0)
	index := make(map[uuid.UUID]int)
	for _, r := range records {
		key := uuid.Nil
		if r.TaskID != nil {
			key = *r.TaskID
		}
		i, ok := index[key]
		if !ok {
			var id *uuid.UUID
			if r.TaskID != nil {
				v := *r.TaskID
				id = &v
			}
			out = append(out, TaskHours{TaskID: id, TaskName: taskLabel(r), Hours: decimal.Zero})
			i = len(out) - 1
			index[key] = i
		}
		out[i].Hours = out[i].Hours.Add(r.Hours)
	}
	return out
}

func SumHours(records []*domain.WorkRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Hours)
	}
	return total
}

func taskLabel(r *domain.WorkRecord) string {
	switch {
	case r.TaskID == nil:
		return NoTaskLabel
	case r.Task != nil && r.Task.Name != "":
		return r.Task.Name
	default:
		return UnknownTaskLabel
	}
}
