package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/consultancy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/consultancy-backend/internal/domain"
)

func TestTaskRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := testutil.DBC(tx)

	repo := NewTaskRepo(db, testutil.Logger(t))
	client := testutil.SeedClient(t, ctx, tx, "acme")
	contract := testutil.SeedContract(t, ctx, tx, client.ID, types.ContractStateActive, "100")
	other := testutil.SeedContract(t, ctx, tx, client.ID, types.ContractStateActive, "100")

	first, err := repo.Create(dbc, &types.Task{Name: "design", ContractID: testutil.PtrUUID(contract.ID)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.State != types.TaskStateActive {
		t.Fatalf("Create: expected default state active, got %q", first.State)
	}
	testutil.SeedTask(t, ctx, tx, testutil.PtrUUID(other.ID), "elsewhere", types.TaskStateActive)
	standalone := testutil.SeedTask(t, ctx, tx, nil, "internal", types.TaskStateComplete)

	got, err := repo.GetByID(dbc, standalone.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got.ContractID != nil || got.State != types.TaskStateComplete {
		t.Fatalf("GetByID: unexpected row %+v", got)
	}

	byContract, err := repo.ListByContractID(dbc, contract.ID)
	if err != nil {
		t.Fatalf("ListByContractID: %v", err)
	}
	if len(byContract) != 1 || byContract[0].ID != first.ID {
		t.Fatalf("ListByContractID: unexpected rows %+v", byContract)
	}
	if rows, err := repo.ListByContractID(dbc, uuid.Nil); err != nil || len(rows) != 0 {
		t.Fatalf("ListByContractID(nil): err=%v len=%d", err, len(rows))
	}
	if all, err := repo.List(dbc, nil); err != nil || len(all) != 3 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}

	ok, err := repo.UpdateFields(dbc, first.ID, map[string]interface{}{"name": "discovery", "state": types.TaskStateComplete})
	if err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}
	updated, _ := repo.GetByID(dbc, first.ID)
	if updated.Name != "discovery" || updated.State != types.TaskStateComplete {
		t.Fatalf("UpdateFields: unexpected row %+v", updated)
	}
	if ok, err := repo.UpdateFields(dbc, uuid.New(), map[string]interface{}{"name": "x"}); err != nil || ok {
		t.Fatalf("UpdateFields(missing): ok=%v err=%v", ok, err)
	}
}
