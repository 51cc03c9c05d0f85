package domain

import "time"

// Default policy values
const (
	// DefaultMinCancelWindow минимальный срок до начала резервации,
	// после которого отмена владельцем уже невозможна
	DefaultMinCancelWindow = 2 * time.Hour

	// DefaultOperationsRole группа подготовки помещений (уборка, расстановка)
	DefaultOperationsRole = "aseo"

	// DefaultStaffRole группа координаторов, получающих новые заявки
	DefaultStaffRole = "coordinator"
)

// Business validation constants
const (
	MaxPurposeLength       = 500
	MaxCancelReasonLength  = 255
	MaxApprovalNotesLength = 500
	MinAttendeesCount      = 1
)

// ActiveStatuses статусы, учитываемые при проверке конфликтов и стока
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
}
