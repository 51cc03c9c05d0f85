package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a request to use a space for a half-open time window
type Reservation struct {
	ID             int64
	UserID         int64
	SpaceID        int64
	StartsAt       time.Time
	EndsAt         time.Time
	Status         ReservationStatus
	Purpose        string
	AttendeesCount int

	CancelReason *string
	CancelledAt  *time.Time

	// Denormalized data for display and reports
	SpaceName     string
	Username      string
	DecisionNotes *string

	// Resource usage rows owned by this reservation; immutable after creation
	Usages []ReservationResource

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the reservation window as a TimeRange
func (r *Reservation) Interval() TimeRange {
	return TimeRange{Start: r.StartsAt, End: r.EndsAt}
}

// IsActive returns true if the reservation counts for conflict and stock
// accounting (pending or approved)
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// IsTerminal returns true if the status can never change again
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCancelled
}

// CanBeDecided returns true if a staff decision is still legal
func (r *Reservation) CanBeDecided() bool {
	return r.Status == StatusPending
}

// CanBeCancelled returns true if the status permits cancellation
// (the minimum-notice window is checked separately, against the clock)
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// ResourceQuantity возвращает количество единиц ресурса, запрошенных этой резервацией
func (r *Reservation) ResourceQuantity(resourceID int64) int {
	total := 0
	for _, u := range r.Usages {
		if u.ResourceID == resourceID {
			total += u.Quantity
		}
	}
	return total
}

// ReservationResource join entity: units of a resource committed by a reservation
type ReservationResource struct {
	ID            int64
	ReservationID int64
	ResourceID    int64
	Quantity      int

	// Denormalized for reports
	ResourceName string
}

// OverlapFilter фильтр выборки резерваций, пересекающихся с интервалом
type OverlapFilter struct {
	Interval  TimeRange           // Обязательный параметр
	SpaceID   *int64              // Фильтр по пространству (опционально)
	Statuses  []ReservationStatus // Какие статусы учитывать (обычно ActiveStatuses)
	ExcludeID *int64              // Исключить резервацию (проверка против самой себя)
	WithUsage bool                // Подгрузить строки использования ресурсов
}

// ReportFilter фильтр выборки резерваций для отчётов
type ReportFilter struct {
	StartDate *time.Time         // Начало периода (опционально)
	EndDate   *time.Time         // Конец периода (опционально)
	Status    *ReservationStatus // Фильтр по статусу (опционально)
	SpaceID   *int64             // Фильтр по пространству (опционально)
}
