package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/data/repos"
	"github.com/yungbote/consultancy-backend/internal/data/repos/testutil"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
)

type harness struct {
	ctx     context.Context
	tx      *gorm.DB
	dbc     dbctx.Context
	events  *events.Recorder
	metrics *observability.Metrics

	clients     ClientService
	contracts   ContractService
	tasks       TaskService
	workRecords WorkRecordService
	invoices    InvoiceService
}

// newHarness wires every service against one rolled-back transaction. now
// fixes the clock for calendar-dependent operations.
func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	rec := &events.Recorder{}
	metrics := observability.NewMetrics()
	clock := func() time.Time { return now }

	return &harness{
		ctx:         context.Background(),
		tx:          tx,
		dbc:         testutil.DBC(tx),
		events:      rec,
		metrics:     metrics,
		clients:     NewClientService(db, log, set.Clients, rec, metrics),
		contracts:   NewContractService(db, log, set, rec, metrics),
		tasks:       NewTaskService(db, log, set, rec, metrics),
		workRecords: NewWorkRecordService(db, log, set, rec, metrics, clock, time.UTC),
		invoices:    NewInvoiceService(db, log, set, rec, metrics, clock, time.UTC),
	}
}

func (h *harness) lastEvent(t *testing.T) events.Event {
	t.Helper()
	evs := h.events.Events()
	if len(evs) == 0 {
		t.Fatalf("no events recorded")
	}
	return evs[len(evs)-1]
}
