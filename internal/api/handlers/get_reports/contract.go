package get_reports

import (
	"context"

	"github.com/m04kA/UCS-ReservationService/internal/service/reports/models"
)

type ReportService interface {
	Export(ctx context.Context, req *models.ReportRequest) (*models.ReportResponse, error)
	Statistics(ctx context.Context, userID int64) (*models.StatisticsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
