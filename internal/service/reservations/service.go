package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	approvalRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/approval"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/UCS-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения резерваций: карточка, история, очередь модерации,
// календарная сетка занятости помещений
type Service struct {
	reservationRepo ReservationRepository
	approvalRepo    ApprovalRepository
	identityRepo    IdentityRepository
	staffRole       string
	logger          Logger
}

// NewService создает новый экземпляр сервиса резерваций
func NewService(
	reservationRepo ReservationRepository,
	approvalRepo ApprovalRepository,
	identityRepo IdentityRepository,
	staffRole string,
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
		logger:          logger,
	}
}

// GetByID получает резервацию по ID вместе с решением, если оно принято.
// Пользователь видит только свои резервации, сотрудники с ролью модератора видят все.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, reservation, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	resp := models.FromDomainReservation(reservation)

	approval, err := s.approvalRepo.GetByReservationID(ctx, id)
	if err != nil && !errors.Is(err, approvalRepo.ErrApprovalNotFound) {
		s.logger.Error("GetByID: approval lookup failed for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - approval lookup: %v", ErrInternal, err)
	}
	if approval != nil {
		resp.Approval = models.FromDomainApproval(approval)
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return resp, nil
}

// GetUserReservations получает историю резерваций пользователя,
// опционально отфильтрованную по статусу
func (s *Service) GetUserReservations(ctx context.Context, userID int64, status *string) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d", userID)

	var domainStatus *domain.ReservationStatus
	if status != nil {
		converted, err := models.ToDomainReservationStatus(*status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status filter %q", *status)
			return nil, ErrInvalidStatus
		}
		domainStatus = &converted
	}

	reservations, err := s.reservationRepo.ListByUser(ctx, userID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: found %d reservations for user=%d", len(reservations), userID)
	return models.FromDomainReservationList(reservations), nil
}

// GetPendingQueue получает очередь заявок, ожидающих решения.
// Доступно только сотрудникам с ролью модератора.
func (s *Service) GetPendingQueue(ctx context.Context, userID int64) (*models.ReservationListResponse, error) {
	s.logger.Info("GetPendingQueue: fetching pending reservations for user=%d", userID)

	isStaff, err := s.identityRepo.HasRole(ctx, userID, s.staffRole)
	if err != nil {
		s.logger.Error("GetPendingQueue: role check failed for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetPendingQueue - role check: %v", ErrInternal, err)
	}
	if !isStaff {
		s.logger.Warn("GetPendingQueue: access denied for user=%d", userID)
		return nil, ErrAccessDenied
	}

	reservations, err := s.reservationRepo.ListPending(ctx)
	if err != nil {
		s.logger.Error("GetPendingQueue: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPendingQueue - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPendingQueue: found %d pending reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// GetCalendarEvents получает события занятости помещений за период.
// В сетку попадают активные резервации (ожидающие и подтверждённые),
// цвет статуса отдаётся в данных события.
func (s *Service) GetCalendarEvents(ctx context.Context, from, to time.Time, spaceID *int64) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendarEvents: fetching calendar from=%s to=%s", from.Format(time.RFC3339), to.Format(time.RFC3339))

	interval, err := domain.NewTimeRange(from, to)
	if err != nil {
		s.logger.Warn("GetCalendarEvents: invalid period from=%v to=%v", from, to)
		return nil, ErrInvalidTimeRange
	}

	reservations, err := s.reservationRepo.ListOverlapping(ctx, domain.OverlapFilter{
		Interval: interval,
		SpaceID:  spaceID,
		Statuses: domain.ActiveStatuses,
	})
	if err != nil {
		s.logger.Error("GetCalendarEvents: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetCalendarEvents - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCalendarEvents: found %d events", len(reservations))
	return models.FromDomainCalendar(reservations), nil
}

// checkUserAccess проверяет, вправе ли пользователь видеть резервацию
func (s *Service) checkUserAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.UserID == userID {
		return nil
	}

	isStaff, err := s.identityRepo.HasRole(ctx, userID, s.staffRole)
	if err != nil {
		return fmt.Errorf("%w: checkUserAccess - role check: %v", ErrInternal, err)
	}
	if !isStaff {
		return ErrAccessDenied
	}

	return nil
}
