package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidTransition reports whether moving from one status to another follows
// the normal fulfillment order: pending -> preparing -> ready -> completed,
// with cancellation possible from any non-terminal status. Admin status
// updates are not rejected on this; callers use it to flag unusual moves.
func ValidTransition(from, to OrderStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusPreparing || to == StatusCancelled
	case StatusPreparing:
		return to == StatusReady || to == StatusCancelled
	case StatusReady:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

type Order struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	UserID     uuid.UUID    `db:"user_id" json:"user_id"`
	User       *UserSummary `db:"-" json:"user,omitempty"`
	Items      []OrderLine  `db:"-" json:"items"`
	TotalPrice float64      `db:"total_price" json:"total_price"`
	Status     OrderStatus  `db:"status" json:"status"`
	Notes      string       `db:"notes" json:"notes"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// OrderLine captures a menu item reference with the quantity and unit price
// at order time. Menu is resolved on read and is nil when the referenced
// item has since been deleted; the captured price and quantity stand.
type OrderLine struct {
	MenuID   uuid.UUID `db:"menu_item_id" json:"menu_id"`
	Menu     *MenuItem `db:"-" json:"menu,omitempty"`
	Quantity int       `db:"quantity" json:"quantity"`
	Price    float64   `db:"price" json:"price"`
}

func ComputeTotal(items []OrderLine) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
