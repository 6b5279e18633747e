package lifecycle

import (
	"strings"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

// StateFilter selects tasks or contracts by (effective) state on list reads.
type StateFilter string

const (
	FilterActive   StateFilter = "active"
	FilterComplete StateFilter = "complete"
	FilterAll      StateFilter = "all"
)

// ParseStateFilter accepts active, complete or all; blank means active.
func ParseStateFilter(raw string) (StateFilter, error) {
	switch StateFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FilterActive:
		return FilterActive, nil
	case FilterComplete:
		return FilterComplete, nil
	case FilterAll:
		return FilterAll, nil
	default:
		return "", domain.Validation("parse state filter", "state must be one of active, complete, all")
	}
}

// Apply narrows tasks according to f.
func (f StateFilter) Apply(tasks []*domain.Task, contracts []*domain.Contract) []*domain.Task {
	switch f {
	case FilterAll:
		return tasks
	case FilterComplete:
		return FilterByEffectiveState(tasks, contracts, true)
	default:
		return FilterByEffectiveState(tasks, contracts, false)
	}
}
