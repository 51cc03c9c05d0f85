package reports

import (
	"context"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	ListForReport(ctx context.Context, filter domain.ReportFilter) ([]*domain.Reservation, error)
	CountByStatus(ctx context.Context) ([]domain.StatusCount, error)
	CountByMonth(ctx context.Context, since time.Time) ([]domain.MonthlyCount, error)
}

// ApprovalRepository интерфейс репозитория решений
type ApprovalRepository interface {
	CountDecidedSince(ctx context.Context, since time.Time, decision domain.Decision) (int, error)
}

// IdentityRepository интерфейс репозитория учётных записей
type IdentityRepository interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
