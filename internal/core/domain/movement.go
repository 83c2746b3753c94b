package domain

import "time"

// MovementType classifies a stock quantity change.
type MovementType string

const (
	MovementAdd        MovementType = "add"
	MovementRemove     MovementType = "remove"
	MovementAllocate   MovementType = "allocate"
	MovementDeallocate MovementType = "deallocate"
)

// Movement is an immutable audit record of a stock quantity change.
type Movement struct {
	ID          string       `json:"id"`
	StockItemID string       `json:"stock_item_id"`
	Quantity    int          `json:"quantity"`
	Type        MovementType `json:"type"`
	FromUserID  string       `json:"from_user_id,omitempty"`
	ToUserID    string       `json:"to_user_id,omitempty"`
	PerformedBy string       `json:"performed_by"`
	PerformedAt time.Time    `json:"performed_at"`
}

// DeltaMovement returns the movement type and unsigned quantity for a direct
// edit from oldQty to newQty. ok is false when the quantity did not change.
func DeltaMovement(oldQty, newQty int) (typ MovementType, qty int, ok bool) {
	switch diff := newQty - oldQty; {
	case diff > 0:
		return MovementAdd, diff, true
	case diff < 0:
		return MovementRemove, -diff, true
	default:
		return "", 0, false
	}
}
