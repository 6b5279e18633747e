// Package billing rolls invoice line items up to tasks and contracts.
package billing

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

// TaskFinancials is the per-task slice of a contract rollup.
type TaskFinancials struct {
	TaskID             uuid.UUID       `json:"task_id"`
	Name               string          `json:"name"`
	TotalInvoiced      decimal.Decimal `json:"total_invoiced"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	LastInvoiceEndDate *civil.Date     `json:"last_invoice_end_date"`
}

// ContractDetails is the contract summary plus its per-task breakdown.
type ContractDetails struct {
	ContractID         uuid.UUID            `json:"contract_id"`
	Description        string               `json:"description"`
	State              domain.ContractState `json:"state"`
	Price              decimal.NullDecimal  `json:"price"`
	TotalInvoiced      decimal.Decimal      `json:"total_invoiced"`
	TotalPaid          decimal.Decimal      `json:"total_paid"`
	Remaining          decimal.NullDecimal  `json:"remaining"`
	LastInvoiceEndDate *civil.Date          `json:"last_invoice_end_date"`
	Tasks              []TaskFinancials     `json:"tasks"`
}

// ComputeContractDetails joins items back to tasks in memory. tasks are the
// contract's tasks in the order they were read; items must carry their parent
// Invoice, and items without one are ignored.
func ComputeContractDetails(contract *domain.Contract, tasks []*domain.Task, items []*domain.InvoiceItem) ContractDetails {
	byTask := groupItemsByTask(items)

	out := ContractDetails{
		ContractID:    contract.ID,
		Description:   contract.Description,
		State:         contract.State,
		Price:         contract.Price,
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Tasks:         make([]TaskFinancials, 0, len(tasks)),
	}

	taskEndDates := make([]*civil.Date, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		tf := ComputeTaskFinancials(t, byTask[t.ID])
		out.TotalInvoiced = out.TotalInvoiced.Add(tf.TotalInvoiced)
		out.TotalPaid = out.TotalPaid.Add(tf.TotalPaid)
		taskEndDates = append(taskEndDates, tf.LastInvoiceEndDate)
		out.Tasks = append(out.Tasks, tf)
	}

	// Remaining is measured against paid amounts, not invoiced ones.
	if contract.Price.Valid {
		out.Remaining = decimal.NewNullDecimal(contract.Price.Decimal.Sub(out.TotalPaid))
	}
	out.LastInvoiceEndDate = WatermarkInvoiceEndDate(taskEndDates)
	return out
}

// ComputeTaskFinancials sums issued and paid line prices for one task. Draft
// invoices count toward neither total.
func ComputeTaskFinancials(t *domain.Task, items []*domain.InvoiceItem) TaskFinancials {
	tf := TaskFinancials{
		TaskID:        t.ID,
		Name:          t.Name,
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	for _, it := range items {
		if it == nil || it.Invoice == nil {
			continue
		}
		switch it.Invoice.State {
		case domain.InvoiceStateIssued:
			tf.TotalInvoiced = tf.TotalInvoiced.Add(it.Price)
		case domain.InvoiceStatePaid:
			tf.TotalPaid = tf.TotalPaid.Add(it.Price)
		}
	}
	tf.LastInvoiceEndDate = LatestInvoiceEndDate(items)
	return tf
}

// LatestInvoiceEndDate is the latest end date among a single task's items
// that have one, or nil.
func LatestInvoiceEndDate(items []*domain.InvoiceItem) *civil.Date {
	var latest *civil.Date
	for _, it := range items {
		if it == nil || it.Invoice == nil || it.EndDate == nil {
			continue
		}
		d := domain.CivilDate(*it.EndDate)
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest
}

// WatermarkInvoiceEndDate is the earliest of the per-task latest end dates:
// the point up to which every billed task has been invoiced. Tasks without a
// date are skipped; nil when none has one.
func WatermarkInvoiceEndDate(perTask []*civil.Date) *civil.Date {
	var watermark *civil.Date
	for _, d := range perTask {
		if d == nil {
			continue
		}
		if watermark == nil || d.Before(*watermark) {
			v := *d
			watermark = &v
		}
	}
	return watermark
}

func groupItemsByTask(items []*domain.InvoiceItem) map[uuid.UUID][]*domain.InvoiceItem {
	out := make(map[uuid.UUID][]*domain.InvoiceItem)
	for _, it := range items {
		if it == nil || it.TaskID == nil || it.Invoice == nil {
			continue
		}
		out[*it.TaskID] = append(out[*it.TaskID], it)
	}
	return out
}
