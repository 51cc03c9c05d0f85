package decide_reservation

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// ApprovalRepository интерфейс репозитория решений
type ApprovalRepository interface {
	Upsert(ctx context.Context, approval *domain.Approval) (*domain.Approval, error)
}

// ResourceRepository интерфейс справочника ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// IdentityRepository интерфейс репозитория учётных записей
type IdentityRepository interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}

// Notifier интерфейс рассылки уведомлений
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []int64, message string) int
	NotifyRole(ctx context.Context, role string, message string) int
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
