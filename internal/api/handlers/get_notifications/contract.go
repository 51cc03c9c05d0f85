package get_notifications

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
