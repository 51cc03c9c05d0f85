package domain

import "time"

// Resource represents a shared loanable item with finite stock (projector, chairs)
// Invariant: at any instant the sum of quantities committed by overlapping
// active reservations never exceeds Quantity
type Resource struct {
	ID        int64
	Name      string
	Quantity  int // Total stock, >= 0
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceAvailability результат запроса доступности ресурса на интервале
type ResourceAvailability struct {
	ResourceID int64
	Available  int
	Total      int
}
