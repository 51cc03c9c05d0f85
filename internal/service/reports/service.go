package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	"github.com/m04kA/UCS-ReservationService/internal/service/reports/models"
)

// Глубина помесячной статистики на дашборде
const statisticsMonths = 12

// Service сервис отчётности: выгрузка резерваций и сводка для дашборда.
// Доступ только для сотрудников с ролью модератора.
type Service struct {
	reservationRepo ReservationRepository
	approvalRepo    ApprovalRepository
	identityRepo    IdentityRepository
	staffRole       string
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса отчётности
func NewService(
	reservationRepo ReservationRepository,
	approvalRepo ApprovalRepository,
	identityRepo IdentityRepository,
	staffRole string,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if staffRole == "" {
		staffRole = domain.DefaultStaffRole
	}
	return &Service{
		reservationRepo: reservationRepo,
		approvalRepo:    approvalRepo,
		identityRepo:    identityRepo,
		staffRole:       staffRole,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Export выгружает резервации по фильтру в виде строк отчёта
func (s *Service) Export(ctx context.Context, req *models.ReportRequest) (*models.ReportResponse, error) {
	s.logger.Info("Export: building report for user=%d", req.UserID)

	if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
		return nil, err
	}

	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		s.logger.Warn("Export: invalid period start=%v end=%v", req.StartDate, req.EndDate)
		return nil, ErrInvalidPeriod
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("Export: invalid status filter %v", req.Status)
		return nil, ErrInvalidStatus
	}

	reservations, err := s.reservationRepo.ListForReport(ctx, filter)
	if err != nil {
		s.logger.Error("Export: repository error: %v", err)
		return nil, fmt.Errorf("%w: Export - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Export: report contains %d rows", len(reservations))
	return models.FromDomainReservations(reservations), nil
}

// Statistics собирает сводку: счётчики по статусам, помесячная динамика
// за последний год и количество решений за сегодня
func (s *Service) Statistics(ctx context.Context, userID int64) (*models.StatisticsResponse, error) {
	s.logger.Info("Statistics: building dashboard for user=%d", userID)

	if err := s.checkStaffAccess(ctx, userID); err != nil {
		return nil, err
	}

	byStatus, err := s.reservationRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Statistics: status counts failed: %v", err)
		return nil, fmt.Errorf("%w: Statistics - status counts: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	since := now.AddDate(0, -statisticsMonths, 0)

	byMonth, err := s.reservationRepo.CountByMonth(ctx, since)
	if err != nil {
		s.logger.Error("Statistics: monthly counts failed: %v", err)
		return nil, fmt.Errorf("%w: Statistics - monthly counts: %v", ErrInternal, err)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	approvedToday, err := s.approvalRepo.CountDecidedSince(ctx, startOfDay, domain.DecisionApproved)
	if err != nil {
		s.logger.Error("Statistics: approved today count failed: %v", err)
		return nil, fmt.Errorf("%w: Statistics - approved today: %v", ErrInternal, err)
	}

	rejectedToday, err := s.approvalRepo.CountDecidedSince(ctx, startOfDay, domain.DecisionRejected)
	if err != nil {
		s.logger.Error("Statistics: rejected today count failed: %v", err)
		return nil, fmt.Errorf("%w: Statistics - rejected today: %v", ErrInternal, err)
	}

	statuses, months, total := models.FromDomainCounts(byStatus, byMonth)

	s.logger.Info("Statistics: dashboard ready, total=%d", total)
	return &models.StatisticsResponse{
		Total:         total,
		ByStatus:      statuses,
		ByMonth:       months,
		ApprovedToday: approvedToday,
		RejectedToday: rejectedToday,
	}, nil
}

func (s *Service) checkStaffAccess(ctx context.Context, userID int64) error {
	isStaff, err := s.identityRepo.HasRole(ctx, userID, s.staffRole)
	if err != nil {
		s.logger.Error("checkStaffAccess: role check failed for user=%d: %v", userID, err)
		return fmt.Errorf("%w: checkStaffAccess - role check: %v", ErrInternal, err)
	}
	if !isStaff {
		s.logger.Warn("checkStaffAccess: access denied for user=%d", userID)
		return ErrAccessDenied
	}
	return nil
}
