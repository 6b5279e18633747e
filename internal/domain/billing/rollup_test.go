package billing

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

func day(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func newTask(contract *domain.Contract, name string) *domain.Task {
	id := contract.ID
	return &domain.Task{ID: uuid.New(), Name: name, ContractID: &id, State: domain.TaskStateActive}
}

func item(t *domain.Task, state domain.InvoiceState, price string, end *civil.Date) *domain.InvoiceItem {
	id := t.ID
	inv := &domain.Invoice{ID: uuid.New(), State: state}
	return &domain.InvoiceItem{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Invoice:   inv,
		TaskID:    &id,
		Price:     decimal.RequireFromString(price),
		EndDate:   domain.StoreDatePtr(end),
	}
}

func ptr(d civil.Date) *civil.Date { return &d }

func TestComputeContractDetailsNoTasks(t *testing.T) {
	c := &domain.Contract{ID: uuid.New(), Description: "retainer", Price: decimal.NewNullDecimal(decimal.RequireFromString("1000"))}

	got := ComputeContractDetails(c, nil, nil)

	assert.True(t, got.TotalInvoiced.IsZero())
	assert.True(t, got.TotalPaid.IsZero())
	assert.Nil(t, got.LastInvoiceEndDate)
	require.True(t, got.Remaining.Valid)
	assert.True(t, got.Remaining.Decimal.Equal(decimal.RequireFromString("1000")))
	assert.NotNil(t, got.Tasks)
	assert.Empty(t, got.Tasks)
}

func TestComputeTaskFinancialsPartitionsByInvoiceState(t *testing.T) {
	c := &domain.Contract{ID: uuid.New()}
	tk := newTask(c, "design")
	issued := item(tk, domain.InvoiceStateIssued, "300.00", ptr(day(2024, 1, 10)))
	paid := item(tk, domain.InvoiceStatePaid, "450.50", nil)

	got := ComputeTaskFinancials(tk, []*domain.InvoiceItem{issued, paid})

	assert.True(t, got.TotalInvoiced.Equal(issued.Price), "invoiced=%s", got.TotalInvoiced)
	assert.True(t, got.TotalPaid.Equal(paid.Price), "paid=%s", got.TotalPaid)
	require.NotNil(t, got.LastInvoiceEndDate)
	assert.Equal(t, day(2024, 1, 10), *got.LastInvoiceEndDate)
}

func TestComputeTaskFinancialsIgnoresDraftAmounts(t *testing.T) {
	c := &domain.Contract{ID: uuid.New()}
	tk := newTask(c, "build")
	draft := item(tk, domain.InvoiceStateDraft, "999", ptr(day(2024, 2, 1)))

	got := ComputeTaskFinancials(tk, []*domain.InvoiceItem{draft})

	assert.True(t, got.TotalInvoiced.IsZero())
	assert.True(t, got.TotalPaid.IsZero())
	require.NotNil(t, got.LastInvoiceEndDate)
	assert.Equal(t, day(2024, 2, 1), *got.LastInvoiceEndDate)
}

func TestLatestInvoiceEndDateAllAbsent(t *testing.T) {
	c := &domain.Contract{ID: uuid.New()}
	tk := newTask(c, "ops")

	assert.Nil(t, LatestInvoiceEndDate(nil))
	assert.Nil(t, LatestInvoiceEndDate([]*domain.InvoiceItem{item(tk, domain.InvoiceStatePaid, "1", nil)}))
}

func TestLatestInvoiceEndDateSkipsItemsWithoutInvoice(t *testing.T) {
	c := &domain.Contract{ID: uuid.New()}
	tk := newTask(c, "ops")
	orphan := item(tk, domain.InvoiceStateIssued, "10", ptr(day(2024, 5, 1)))
	orphan.Invoice = nil
	kept := item(tk, domain.InvoiceStateIssued, "10", ptr(day(2024, 3, 1)))

	got := LatestInvoiceEndDate([]*domain.InvoiceItem{orphan, kept})
	require.NotNil(t, got)
	assert.Equal(t, day(2024, 3, 1), *got)
}

func TestWatermarkIsMinimumAcrossTasks(t *testing.T) {
	assert.Nil(t, WatermarkInvoiceEndDate(nil))
	assert.Nil(t, WatermarkInvoiceEndDate([]*civil.Date{nil, nil}))

	got := WatermarkInvoiceEndDate([]*civil.Date{ptr(day(2024, 1, 20)), nil, ptr(day(2024, 1, 10))})
	require.NotNil(t, got)
	assert.Equal(t, day(2024, 1, 10), *got)
}

func TestComputeContractDetailsRollsUpTasks(t *testing.T) {
	c := &domain.Contract{
		ID:          uuid.New(),
		Description: "platform rebuild",
		State:       domain.ContractStateActive,
		Price:       decimal.NewNullDecimal(decimal.RequireFromString("5000")),
	}
	first := newTask(c, "discovery")
	second := newTask(c, "delivery")
	third := newTask(c, "support")

	items := []*domain.InvoiceItem{
		item(first, domain.InvoiceStateIssued, "1000", ptr(day(2024, 1, 5))),
		item(first, domain.InvoiceStatePaid, "500", ptr(day(2024, 1, 10))),
		item(second, domain.InvoiceStatePaid, "750.25", ptr(day(2024, 1, 20))),
		item(second, domain.InvoiceStateDraft, "100", nil),
	}
	unattached := item(third, domain.InvoiceStatePaid, "42", ptr(day(2023, 12, 1)))
	unattached.Invoice = nil
	items = append(items, unattached)

	got := ComputeContractDetails(c, []*domain.Task{first, second, third}, items)

	assert.Equal(t, c.ID, got.ContractID)
	assert.Equal(t, "platform rebuild", got.Description)
	assert.True(t, got.TotalInvoiced.Equal(decimal.RequireFromString("1000")), "invoiced=%s", got.TotalInvoiced)
	assert.True(t, got.TotalPaid.Equal(decimal.RequireFromString("1250.25")), "paid=%s", got.TotalPaid)
	require.True(t, got.Remaining.Valid)
	assert.True(t, got.Remaining.Decimal.Equal(decimal.RequireFromString("3749.75")), "remaining=%s", got.Remaining.Decimal)

	require.NotNil(t, got.LastInvoiceEndDate)
	assert.Equal(t, day(2024, 1, 10), *got.LastInvoiceEndDate)

	require.Len(t, got.Tasks, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{got.Tasks[0].TaskID, got.Tasks[1].TaskID, got.Tasks[2].TaskID})
	assert.Equal(t, day(2024, 1, 10), *got.Tasks[0].LastInvoiceEndDate)
	assert.Equal(t, day(2024, 1, 20), *got.Tasks[1].LastInvoiceEndDate)
	assert.Nil(t, got.Tasks[2].LastInvoiceEndDate)
	assert.True(t, got.Tasks[2].TotalPaid.IsZero())
}

func TestComputeContractDetailsWithoutPrice(t *testing.T) {
	c := &domain.Contract{ID: uuid.New()}
	tk := newTask(c, "t")

	got := ComputeContractDetails(c, []*domain.Task{tk}, []*domain.InvoiceItem{item(tk, domain.InvoiceStatePaid, "10", nil)})

	assert.False(t, got.Remaining.Valid)
	assert.Nil(t, got.LastInvoiceEndDate)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["remaining"])
	assert.Nil(t, decoded["price"])
	assert.Nil(t, decoded["last_invoice_end_date"])
	assert.Equal(t, "10", decoded["total_paid"])
}
