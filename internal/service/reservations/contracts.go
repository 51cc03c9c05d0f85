package reservations

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListPending(ctx context.Context) ([]*domain.Reservation, error)
	ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error)
}

// ApprovalRepository интерфейс репозитория решений
type ApprovalRepository interface {
	GetByReservationID(ctx context.Context, reservationID int64) (*domain.Approval, error)
}

// IdentityRepository интерфейс репозитория учётных записей
type IdentityRepository interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
