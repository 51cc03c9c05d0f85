package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	spaceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/space"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
)

// Текст уведомления для координаторов о новой заявке
const msgNewReservation = "Новая заявка №%d: %s, %s - %s"

// UseCase use case для создания заявки на резервацию
type UseCase struct {
	reservationRepo ReservationRepository
	spaceRepo       SpaceRepository
	resourceRepo    ResourceRepository
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	staffRole       string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	spaceRepo SpaceRepository,
	resourceRepo ResourceRepository,
	notifier Notifier,
	txManager TransactionManager,
	staffRole string,
	logger Logger,
) *UseCase {
	if staffRole == "" {
		staffRole = domain.DefaultStaffRole
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		spaceRepo:       spaceRepo,
		resourceRepo:    resourceRepo,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		staffRole:       staffRole,
		logger:          logger,
	}
}

// Execute выполняет use case создания резервации.
// Проверка стока ресурсов и запись заявки идут в одной сериализуемой
// транзакции, чтобы параллельные заявки не выдали ресурс дважды.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, space=%d, starts=%s, ends=%s, resources=%d",
		req.UserID, req.SpaceID, req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339), len(req.Resources))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация интервала
	interval, err := domain.NewTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid interval starts=%v ends=%v", req.StartsAt, req.EndsAt)
		return nil, ErrInvalidInterval
	}

	now := uc.timeProvider.Now()
	if !req.StartsAt.After(now) {
		uc.logger.Warn("CreateReservation: interval starts in the past, starts=%v now=%v", req.StartsAt, now)
		return nil, ErrStartsInPast
	}

	// 3. Проверяем пространство
	space, err := uc.spaceRepo.GetByID(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			uc.logger.Warn("CreateReservation: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get space id=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: failed to get space: %v", ErrInternal, err)
	}
	if !space.IsActive {
		uc.logger.Warn("CreateReservation: space id=%d is not active", req.SpaceID)
		return nil, ErrSpaceInactive
	}

	reservation := &domain.Reservation{
		UserID:         req.UserID,
		SpaceID:        req.SpaceID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Status:         domain.StatusPending,
		Purpose:        req.Purpose,
		AttendeesCount: req.AttendeesCount,
		SpaceName:      space.Name,
	}

	resourceNames := make(map[int64]string, len(req.Resources))

	// 4. Проверка стока и запись заявки в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		reservation.Usages = reservation.Usages[:0]

		if len(req.Resources) > 0 {
			// 4.1. Активные резервации, пересекающие интервал, вместе со строками ресурсов
			overlapping, err := uc.reservationRepo.ListOverlapping(txCtx, domain.OverlapFilter{
				Interval:  interval,
				Statuses:  domain.ActiveStatuses,
				WithUsage: true,
			})
			if err != nil {
				uc.logger.Error("CreateReservation: failed to list overlapping reservations: %v", err)
				return wrapInternal("failed to list overlapping reservations", err)
			}

			// 4.2. Для каждого запрошенного ресурса сверяем остаток
			for _, res := range req.Resources {
				resource, err := uc.resourceRepo.GetByID(txCtx, res.ResourceID)
				if err != nil {
					if errors.Is(err, resourceRepo.ErrResourceNotFound) {
						uc.logger.Warn("CreateReservation: resource id=%d not found", res.ResourceID)
						return ErrResourceNotFound
					}
					uc.logger.Error("CreateReservation: failed to get resource id=%d: %v", res.ResourceID, err)
					return wrapInternal("failed to get resource", err)
				}
				if !resource.IsActive {
					uc.logger.Warn("CreateReservation: resource id=%d is not active", res.ResourceID)
					return ErrResourceInactive
				}

				committed := committedQuantity(overlapping, res.ResourceID)
				available := availableQuantity(resource.Quantity, committed)
				if res.Quantity > available {
					uc.logger.Warn("CreateReservation: insufficient stock for resource id=%d: requested=%d available=%d",
						res.ResourceID, res.Quantity, available)
					return &InsufficientResourceError{Detail: InsufficientResource{
						ResourceID:   resource.ID,
						ResourceName: resource.Name,
						Requested:    res.Quantity,
						Available:    available,
					}}
				}

				resourceNames[res.ResourceID] = resource.Name
				reservation.Usages = append(reservation.Usages, domain.ReservationResource{
					ResourceID: res.ResourceID,
					Quantity:   res.Quantity,
				})
			}
		}

		// 4.3. Создаем заявку со строками ресурсов
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return wrapInternal("failed to create reservation", err)
		}

		reservation = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 5. Уведомляем координаторов, сбой рассылки не роняет операцию
	uc.notifier.NotifyRole(ctx, uc.staffRole, fmt.Sprintf(msgNewReservation,
		reservation.ID, space.Name,
		reservation.StartsAt.Format("02.01.2006 15:04"),
		reservation.EndsAt.Format("15:04")))

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", reservation.ID)
	return uc.buildResponse(reservation, space.Name, resourceNames), nil
}

func (uc *UseCase) buildResponse(r *domain.Reservation, spaceName string, resourceNames map[int64]string) *Response {
	resp := &Response{
		ID:             r.ID,
		UserID:         r.UserID,
		SpaceID:        r.SpaceID,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		Status:         string(r.Status),
		Purpose:        r.Purpose,
		AttendeesCount: r.AttendeesCount,
		SpaceName:      spaceName,
		Resources:      make([]ResourceLine, 0, len(r.Usages)),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}

	for _, usage := range r.Usages {
		resp.Resources = append(resp.Resources, ResourceLine{
			ResourceID:   usage.ResourceID,
			ResourceName: resourceNames[usage.ResourceID],
			Quantity:     usage.Quantity,
		})
	}

	return resp
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
