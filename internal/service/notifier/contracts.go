package notifier

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, message string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

// IdentityRepository интерфейс репозитория учётных записей
type IdentityRepository interface {
	UserIDsWithRole(ctx context.Context, role string) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
