package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/consultancy-backend/internal/domain"
)

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Client {
	tb.Helper()
	c := &types.Client{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

// SeedContract creates a contract; an empty price leaves it unset.
func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID, state types.ContractState, price string) *types.Contract {
	tb.Helper()
	c := &types.Contract{
		ID:          uuid.New(),
		ClientID:    clientID,
		Description: "contract",
		State:       state,
	}
	if price != "" {
		c.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID *uuid.UUID, name string, state types.TaskState) *types.Task {
	tb.Helper()
	t := &types.Task{
		ID:         uuid.New(),
		Name:       name,
		ContractID: contractID,
		State:      state,
	}
	if err := tx.WithContext(ctx).Omit("Contract").Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func SeedWorkRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, taskID *uuid.UUID, on civil.Date, hours string, createdAt time.Time) *types.WorkRecord {
	tb.Helper()
	u := userID
	w := &types.WorkRecord{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    &u,
		StartDate: types.StoreDate(on),
		EndDate:   types.StoreDate(on),
		Hours:     decimal.RequireFromString(hours),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Omit("Task").Create(w).Error; err != nil {
		tb.Fatalf("seed work record: %v", err)
	}
	return w
}

// ItemSpec describes one invoice line for SeedInvoice.
type ItemSpec struct {
	TaskID  *uuid.UUID
	Price   string
	EndDate *civil.Date
}

func SeedInvoice(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID, state types.InvoiceState, items ...ItemSpec) *types.Invoice {
	tb.Helper()
	inv := &types.Invoice{
		ID:       uuid.New(),
		ClientID: clientID,
		Date:     types.StoreDate(civil.DateOf(time.Now().UTC())),
		State:    state,
	}
	for _, it := range items {
		price := decimal.RequireFromString(it.Price)
		inv.Items = append(inv.Items, types.InvoiceItem{
			ID:       uuid.New(),
			TaskID:   it.TaskID,
			Quantity: decimal.NewFromInt(1),
			Rate:     price,
			Price:    price,
			EndDate:  types.StoreDatePtr(it.EndDate),
		})
	}
	if err := tx.WithContext(ctx).Create(inv).Error; err != nil {
		tb.Fatalf("seed invoice: %v", err)
	}
	return inv
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrDate(v civil.Date) *civil.Date { return &v }

func Day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}
