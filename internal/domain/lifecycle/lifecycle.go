// Package lifecycle resolves the effective Active/Complete state of tasks
// through their parent contract and gates writes of child records.
//
// Effective state is derived on every call and never cached on the entity: a
// contract moving to Complete must be visible on the very next read.
package lifecycle

import (
	"github.com/google/uuid"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

const (
	ReasonContractComplete = "contract complete"
	ReasonTaskComplete     = "task complete"
)

// ContractLookup resolves a contract by id.
type ContractLookup interface {
	Contract(id uuid.UUID) (*domain.Contract, bool)
}

// ContractIndex is an in-memory ContractLookup keyed by id.
type ContractIndex map[uuid.UUID]*domain.Contract

func (ix ContractIndex) Contract(id uuid.UUID) (*domain.Contract, bool) {
	c, ok := ix[id]
	return c, ok && c != nil
}

func IndexContracts(contracts []*domain.Contract) ContractIndex {
	ix := make(ContractIndex, len(contracts))
	for _, c := range contracts {
		if c != nil {
			ix[c.ID] = c
		}
	}
	return ix
}

func IsContractActive(c *domain.Contract) bool {
	return c != nil && c.State == domain.ContractStateActive
}

// IsTaskActive looks at the task's own state only.
func IsTaskActive(t *domain.Task) bool {
	return t != nil && t.State == domain.TaskStateActive
}

// EffectiveActive reports whether t is active once its parent contract is
// taken into account. A contract id that does not resolve counts as active.
func EffectiveActive(t *domain.Task, contracts ContractLookup) bool {
	if !IsTaskActive(t) {
		return false
	}
	return !parentComplete(t, contracts)
}

// FilterByEffectiveState keeps effectively active tasks when wantComplete is
// false. When true it keeps tasks that are complete themselves or whose parent
// contract is complete. Input order is preserved and the two results partition
// the input.
func FilterByEffectiveState(tasks []*domain.Task, contracts []*domain.Contract, wantComplete bool) []*domain.Task {
	ix := IndexContracts(contracts)
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		complete := !IsTaskActive(t) || parentComplete(t, ix)
		if complete == wantComplete {
			out = append(out, t)
		}
	}
	return out
}

// CanCreateTask admits a new task under c. A nil contract means the task is
// unattached and is always admitted.
func CanCreateTask(c *domain.Contract) error {
	if c != nil && c.State == domain.ContractStateComplete {
		return domain.Conflict("create task", ReasonContractComplete)
	}
	return nil
}

// CanCreateWorkRecord admits a new work record against t. The task's own
// state is checked before its parent's. A nil task means the record is not
// attached to any task.
func CanCreateWorkRecord(t *domain.Task, contracts ContractLookup) error {
	if t == nil {
		return nil
	}
	if t.State == domain.TaskStateComplete {
		return domain.Conflict("create work record", ReasonTaskComplete)
	}
	if parentComplete(t, contracts) {
		return domain.Conflict("create work record", ReasonContractComplete)
	}
	return nil
}

func parentComplete(t *domain.Task, contracts ContractLookup) bool {
	if t.ContractID == nil || contracts == nil {
		return false
	}
	c, ok := contracts.Contract(*t.ContractID)
	if !ok {
		return false
	}
	return c.State == domain.ContractStateComplete
}
