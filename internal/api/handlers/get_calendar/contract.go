package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	GetCalendarEvents(ctx context.Context, from, to time.Time, spaceID *int64) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
