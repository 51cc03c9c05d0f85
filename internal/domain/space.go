package domain

import "time"

// Space represents a bookable physical location (classroom, lab)
// Invariant: at most one approved reservation may hold any given
// half-open time interval on a space
type Space struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
