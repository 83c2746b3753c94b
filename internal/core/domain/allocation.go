package domain

import "time"

// AllocationStatus represents the lifecycle state of an allocation.
type AllocationStatus string

const (
	StatusPending   AllocationStatus = "pending"
	StatusReceived  AllocationStatus = "received"
	StatusCancelled AllocationStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Staying in the same status is always allowed and is a no-op.
var validTransitions = map[AllocationStatus][]AllocationStatus{
	StatusPending:  {StatusReceived, StatusCancelled},
	StatusReceived: {StatusCancelled},
}

// ParseAllocationStatus reports whether s is one of the known statuses.
func ParseAllocationStatus(s string) (AllocationStatus, bool) {
	switch st := AllocationStatus(s); st {
	case StatusPending, StatusReceived, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AllocationStatus) CanTransitionTo(next AllocationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RestoresStock reports whether moving from s to next returns the allocated
// quantity to the stock item. Only the first move into cancelled does.
func (s AllocationStatus) RestoresStock(next AllocationStatus) bool {
	return next == StatusCancelled && s != StatusCancelled
}

// Allocation is a directed assignment of stock to a recipient user.
type Allocation struct {
	ID          string           `json:"id"`
	StockItemID string           `json:"stock_item_id"`
	UserID      string           `json:"user_id"`
	Quantity    int              `json:"quantity"`
	Status      AllocationStatus `json:"status"`
	AllocatedBy string           `json:"allocated_by"`
	AllocatedAt time.Time        `json:"allocated_at"`
}
