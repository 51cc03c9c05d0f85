package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
)

// Текст уведомления группе подготовки при отмене резервации
const msgCancelled = "Отмена: помещение %s, %s - %s готовить не нужно"

// UseCase use case отмены резервации владельцем
type UseCase struct {
	reservationRepo ReservationRepository
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	minCancelWindow time.Duration
	operationsRole  string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	notifier Notifier,
	txManager TransactionManager,
	minCancelWindow time.Duration,
	operationsRole string,
	logger Logger,
) *UseCase {
	if minCancelWindow <= 0 {
		minCancelWindow = domain.DefaultMinCancelWindow
	}
	if operationsRole == "" {
		operationsRole = domain.DefaultOperationsRole
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		minCancelWindow: minCancelWindow,
		operationsRole:  operationsRole,
		logger:          logger,
	}
}

// Execute выполняет use case отмены резервации.
// Отменить может только владелец, только активную заявку и только пока
// до начала остаётся не меньше минимального окна отмены.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d, user=%d", req.ReservationID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	reason := truncateReason(req.Reason)
	now := uc.timeProvider.Now()

	var reservation *domain.Reservation

	// 2. Проверка и отмена в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		reservation, err = uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		if reservation.UserID != req.UserID {
			uc.logger.Warn("CancelReservation: user=%d is not the owner of reservation id=%d",
				req.UserID, reservation.ID)
			return ErrNotOwner
		}

		if !reservation.CanBeCancelled() {
			uc.logger.Warn("CancelReservation: reservation id=%d has status %s, cancel not allowed",
				reservation.ID, reservation.Status)
			return ErrAlreadyFinalized
		}

		// Крайний срок отмены: за minCancelWindow до начала.
		// Сам крайний срок уже опоздание.
		deadline := reservation.StartsAt.Add(-uc.minCancelWindow)
		if !now.Before(deadline) {
			uc.logger.Warn("CancelReservation: reservation id=%d starts at %v, cancel deadline %v passed",
				reservation.ID, reservation.StartsAt, deadline)
			return ErrTooLateToCancel
		}

		if err := uc.reservationRepo.Cancel(txCtx, reservation.ID, reason); err != nil {
			uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", reservation.ID, err)
			return fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
		}

		// Перечитываем запись, чтобы отдать проставленное БД время отмены
		reservation, err = uc.reservationRepo.GetByID(txCtx, reservation.ID)
		if err != nil {
			uc.logger.Error("CancelReservation: failed to reload reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Сообщаем группе подготовки, что помещение готовить не нужно.
	// Владельцу уведомление не отправляется.
	uc.notifier.NotifyRole(ctx, uc.operationsRole, fmt.Sprintf(msgCancelled,
		reservation.SpaceName,
		reservation.StartsAt.Format("02.01.2006 15:04"),
		reservation.EndsAt.Format("15:04")))

	cancelledAt := now
	if reservation.CancelledAt != nil {
		cancelledAt = *reservation.CancelledAt
	}

	uc.logger.Info("CancelReservation: successfully cancelled reservation id=%d", reservation.ID)
	return &Response{
		ReservationID: reservation.ID,
		Status:        string(reservation.Status),
		Reason:        reason,
		CancelledAt:   cancelledAt,
	}, nil
}

// truncateReason обрезает причину отмены до лимита хранения
func truncateReason(reason string) string {
	if utf8.RuneCountInString(reason) <= domain.MaxCancelReasonLength {
		return reason
	}
	runes := []rune(reason)
	return string(runes[:domain.MaxCancelReasonLength])
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	return nil
}
