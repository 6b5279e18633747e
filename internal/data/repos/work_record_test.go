package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/consultancy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/consultancy-backend/internal/domain"
)

func TestWorkRecordRepoWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := testutil.DBC(tx)

	repo := NewWorkRecordRepo(db, testutil.Logger(t))
	task := testutil.SeedTask(t, ctx, tx, nil, "ops", types.TaskStateActive)
	user, other := uuid.New(), uuid.New()

	mon := testutil.Day(2024, time.January, 15)
	sun := mon.AddDays(6)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	late := testutil.SeedWorkRecord(t, ctx, tx, user, testutil.PtrUUID(task.ID), mon, "2", base.Add(2*time.Hour))
	early := testutil.SeedWorkRecord(t, ctx, tx, user, testutil.PtrUUID(task.ID), mon, "1.5", base)
	last := testutil.SeedWorkRecord(t, ctx, tx, user, nil, sun, "3", base)
	testutil.SeedWorkRecord(t, ctx, tx, user, nil, mon.AddDays(-1), "8", base)
	testutil.SeedWorkRecord(t, ctx, tx, user, nil, sun.AddDays(1), "8", base)
	testutil.SeedWorkRecord(t, ctx, tx, other, nil, mon, "8", base)

	rows, err := repo.ListStartingBetween(dbc, &user, mon, sun)
	if err != nil {
		t.Fatalf("ListStartingBetween: %v", err)
	}
	want := []uuid.UUID{early.ID, late.ID, last.ID}
	if len(rows) != len(want) {
		t.Fatalf("ListStartingBetween: expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Fatalf("ListStartingBetween: row %d id=%s want %s", i, rows[i].ID, id)
		}
	}
	if rows[0].Task == nil || rows[0].Task.Name != "ops" {
		t.Fatalf("ListStartingBetween: expected task preloaded, got %+v", rows[0].Task)
	}
	if rows[2].Task != nil {
		t.Fatalf("ListStartingBetween: expected no task on untasked record")
	}
	if got := types.CivilDate(rows[2].StartDate); got != sun {
		t.Fatalf("ListStartingBetween: start date %s want %s", got, sun)
	}
	if !rows[0].Hours.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("ListStartingBetween: hours=%s", rows[0].Hours)
	}

	everyone, err := repo.ListStartingBetween(dbc, nil, mon, sun)
	if err != nil || len(everyone) != 4 {
		t.Fatalf("ListStartingBetween(all users): err=%v len=%d", err, len(everyone))
	}
}

func TestWorkRecordRepoCreateGetDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := testutil.DBC(tx)

	repo := NewWorkRecordRepo(db, testutil.Logger(t))
	task := testutil.SeedTask(t, ctx, tx, nil, "ops", types.TaskStateActive)
	on := testutil.Day(2024, time.March, 4)

	created, err := repo.Create(dbc, &types.WorkRecord{
		TaskID:    testutil.PtrUUID(task.ID),
		UserID:    testutil.PtrUUID(uuid.New()),
		StartDate: types.StoreDate(on),
		EndDate:   types.StoreDate(on),
		Hours:     decimal.RequireFromString("7.25"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got.Task == nil || got.Task.ID != task.ID {
		t.Fatalf("GetByID: expected task preloaded")
	}

	if ok, err := repo.Delete(dbc, created.ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Delete(dbc, created.ID); err != nil || ok {
		t.Fatalf("Delete(again): ok=%v err=%v", ok, err)
	}
	if got, err := repo.GetByID(dbc, created.ID); err != nil || got != nil {
		t.Fatalf("GetByID(deleted): err=%v got=%v", err, got)
	}
}
