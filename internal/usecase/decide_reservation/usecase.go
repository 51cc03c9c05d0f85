package decide_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
)

// Тексты уведомлений владельцу заявки и группе подготовки помещений
const (
	msgApproved     = "Заявка №%d подтверждена: %s, %s - %s"
	msgRejected     = "Заявка №%d отклонена"
	msgPrepareSpace = "Подготовить помещение %s: %s - %s, участников: %d"
	timeFormatDate  = "02.01.2006 15:04"
	timeFormatClock = "15:04"
)

// UseCase use case решения по заявке на резервацию
type UseCase struct {
	reservationRepo ReservationRepository
	approvalRepo    ApprovalRepository
	resourceRepo    ResourceRepository
	identityRepo    IdentityRepository
	notifier        Notifier
	txManager       TransactionManager
	staffRole       string
	operationsRole  string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	approvalRepo ApprovalRepository,
	resourceRepo ResourceRepository,
	identityRepo IdentityRepository,
	notifier Notifier,
	txManager TransactionManager,
	staffRole string,
	operationsRole string,
	logger Logger,
) *UseCase {
	if staffRole == "" {
		staffRole = domain.DefaultStaffRole
	}
	if operationsRole == "" {
		operationsRole = domain.DefaultOperationsRole
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		approvalRepo:    approvalRepo,
		resourceRepo:    resourceRepo,
		identityRepo:    identityRepo,
		notifier:        notifier,
		txManager:       txManager,
		staffRole:       staffRole,
		operationsRole:  operationsRole,
		logger:          logger,
	}
}

// Execute выполняет use case решения по заявке.
// Проверка конфликтов пространства, сверка стока и смена статуса идут
// в одной сериализуемой транзакции. При конфликте заявка остаётся
// pending и запись решения не создаётся.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DecideReservation: reservation=%d, approver=%d, decision=%q",
		req.ReservationID, req.ApproverID, req.Decision)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DecideReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем форму решения до любых проверок
	decision, err := domain.ParseDecision(req.Decision)
	if err != nil {
		uc.logger.Warn("DecideReservation: unknown decision %q", req.Decision)
		return nil, ErrUnknownDecision
	}

	// 3. Решение доступно только модераторам
	isStaff, err := uc.identityRepo.HasRole(ctx, req.ApproverID, uc.staffRole)
	if err != nil {
		uc.logger.Error("DecideReservation: role check failed for approver=%d: %v", req.ApproverID, err)
		return nil, fmt.Errorf("%w: role check: %v", ErrInternal, err)
	}
	if !isStaff {
		uc.logger.Warn("DecideReservation: access denied for approver=%d", req.ApproverID)
		return nil, ErrAccessDenied
	}

	var (
		reservation *domain.Reservation
		approval    *domain.Approval
	)

	// 4. Принимаем решение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		reservation, err = uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("DecideReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("DecideReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return wrapInternal("failed to get reservation", err)
		}

		if !reservation.CanBeDecided() {
			uc.logger.Warn("DecideReservation: reservation id=%d has status %s, decision not allowed",
				reservation.ID, reservation.Status)
			return ErrInvalidState
		}

		newStatus := domain.StatusRejected
		if decision == domain.DecisionApproved {
			newStatus = domain.StatusApproved

			// 4.1. Пересечение с подтверждёнными резервациями того же пространства
			if err := uc.checkSpaceConflict(txCtx, reservation); err != nil {
				return err
			}

			// 4.2. Сток мог разойтись с момента подачи заявки, сверяем повторно
			if err := uc.recheckResourceStock(txCtx, reservation); err != nil {
				return err
			}
		}

		// 4.3. Переводим статус. Exclusion constraint БД остаётся последним
		// арбитром пересечений подтверждённых резерваций.
		if err := uc.reservationRepo.UpdateStatus(txCtx, reservation.ID, newStatus); err != nil {
			if errors.Is(err, reservationRepo.ErrApprovedOverlap) {
				uc.logger.Warn("DecideReservation: exclusion constraint rejected approval of reservation id=%d",
					reservation.ID)
				return ErrSchedulingConflict
			}
			uc.logger.Error("DecideReservation: failed to update status of reservation id=%d: %v",
				reservation.ID, err)
			return wrapInternal("failed to update status", err)
		}
		reservation.Status = newStatus

		// 4.4. Фиксируем запись решения
		approval, err = uc.approvalRepo.Upsert(txCtx, &domain.Approval{
			ReservationID: reservation.ID,
			ApproverID:    req.ApproverID,
			Decision:      decision,
			Notes:         req.Notes,
		})
		if err != nil {
			uc.logger.Error("DecideReservation: failed to record approval for reservation id=%d: %v",
				reservation.ID, err)
			return wrapInternal("failed to record approval", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 5. Уведомления после фиксации транзакции, сбой рассылки не роняет операцию
	uc.sendNotifications(ctx, reservation, decision)

	uc.logger.Info("DecideReservation: reservation id=%d is now %s", reservation.ID, reservation.Status)
	return &Response{
		ReservationID: reservation.ID,
		Status:        string(reservation.Status),
		Decision:      string(decision),
		ApproverID:    approval.ApproverID,
		Notes:         approval.Notes,
		DecidedAt:     approval.DecidedAt,
	}, nil
}

// checkSpaceConflict ищет подтверждённые резервации того же пространства,
// пересекающие интервал заявки
func (uc *UseCase) checkSpaceConflict(ctx context.Context, reservation *domain.Reservation) error {
	conflicts, err := uc.reservationRepo.ListOverlapping(ctx, domain.OverlapFilter{
		Interval:  reservation.Interval(),
		SpaceID:   &reservation.SpaceID,
		Statuses:  []domain.ReservationStatus{domain.StatusApproved},
		ExcludeID: &reservation.ID,
	})
	if err != nil {
		uc.logger.Error("DecideReservation: conflict check failed for reservation id=%d: %v", reservation.ID, err)
		return wrapInternal("conflict check", err)
	}

	if len(conflicts) > 0 {
		uc.logger.Warn("DecideReservation: reservation id=%d conflicts with approved reservation id=%d",
			reservation.ID, conflicts[0].ID)
		return ErrSchedulingConflict
	}

	return nil
}

// recheckResourceStock сверяет сток каждой строки заявки с остатком
// на интервале, не считая саму заявку
func (uc *UseCase) recheckResourceStock(ctx context.Context, reservation *domain.Reservation) error {
	if len(reservation.Usages) == 0 {
		return nil
	}

	overlapping, err := uc.reservationRepo.ListOverlapping(ctx, domain.OverlapFilter{
		Interval:  reservation.Interval(),
		Statuses:  domain.ActiveStatuses,
		ExcludeID: &reservation.ID,
		WithUsage: true,
	})
	if err != nil {
		uc.logger.Error("DecideReservation: stock recheck failed for reservation id=%d: %v", reservation.ID, err)
		return wrapInternal("stock recheck", err)
	}

	for _, usage := range reservation.Usages {
		resource, err := uc.resourceRepo.GetByID(ctx, usage.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("DecideReservation: resource id=%d vanished from catalog", usage.ResourceID)
				return ErrInsufficientResource
			}
			uc.logger.Error("DecideReservation: failed to get resource id=%d: %v", usage.ResourceID, err)
			return wrapInternal("failed to get resource", err)
		}

		committed := 0
		for _, other := range overlapping {
			committed += other.ResourceQuantity(usage.ResourceID)
		}

		if available := resource.Quantity - committed; usage.Quantity > available {
			uc.logger.Warn("DecideReservation: insufficient stock for resource id=%d: requested=%d available=%d",
				usage.ResourceID, usage.Quantity, available)
			return fmt.Errorf("%w: %s requested=%d available=%d",
				ErrInsufficientResource, resource.Name, usage.Quantity, available)
		}
	}

	return nil
}

func (uc *UseCase) sendNotifications(ctx context.Context, reservation *domain.Reservation, decision domain.Decision) {
	if decision == domain.DecisionApproved {
		uc.notifier.NotifyUsers(ctx, []int64{reservation.UserID}, fmt.Sprintf(msgApproved,
			reservation.ID, reservation.SpaceName,
			reservation.StartsAt.Format(timeFormatDate),
			reservation.EndsAt.Format(timeFormatClock)))

		uc.notifier.NotifyRole(ctx, uc.operationsRole, fmt.Sprintf(msgPrepareSpace,
			reservation.SpaceName,
			reservation.StartsAt.Format(timeFormatDate),
			reservation.EndsAt.Format(timeFormatClock),
			reservation.AttendeesCount))
		return
	}

	uc.notifier.NotifyUsers(ctx, []int64{reservation.UserID}, fmt.Sprintf(msgRejected, reservation.ID))
}

// wrapInternal прячет инфраструктурную ошибку за ErrInternal.
// Конфликт сериализации пропускается наружу как есть, чтобы менеджер
// транзакций повторил сериализуемую транзакцию целиком.
func wrapInternal(msg string, err error) error {
	if dbmetrics.IsSerializationFailure(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}
