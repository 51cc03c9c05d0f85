package get_pending_reservations

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	GetPendingQueue(ctx context.Context, userID int64) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
