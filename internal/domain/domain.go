// Package domain holds the persisted consultancy records and the error
// taxonomy shared by the engines, services and handlers.
package domain

type ContractState string

const (
	ContractStateActive   ContractState = "active"
	ContractStateComplete ContractState = "complete"
)

func (s ContractState) Valid() bool {
	return s == ContractStateActive || s == ContractStateComplete
}

type TaskState string

const (
	TaskStateActive   TaskState = "active"
	TaskStateComplete TaskState = "complete"
)

func (s TaskState) Valid() bool {
	return s == TaskStateActive || s == TaskStateComplete
}

type InvoiceState string

const (
	InvoiceStateDraft  InvoiceState = "draft"
	InvoiceStateIssued InvoiceState = "issued"
	InvoiceStatePaid   InvoiceState = "paid"
)

func (s InvoiceState) Valid() bool {
	switch s {
	case InvoiceStateDraft, InvoiceStateIssued, InvoiceStatePaid:
		return true
	default:
		return false
	}
}

// Rank orders invoice states along draft -> issued -> paid.
func (s InvoiceState) Rank() int {
	switch s {
	case InvoiceStateDraft:
		return 0
	case InvoiceStateIssued:
		return 1
	case InvoiceStatePaid:
		return 2
	default:
		return -1
	}
}
