package get_resource_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
)

// UseCase use case расчёта доступности ресурсов на интервале.
// Остаток считается по живым данным: общий сток минус количество,
// удерживаемое активными резервациями, пересекающими интервал.
type UseCase struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		logger:          logger,
	}
}

// Execute возвращает доступность одного ресурса на интервале
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetResourceAvailability: resource=%d, starts=%s, ends=%s",
		req.ResourceID, req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339))

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	interval, err := domain.NewTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		uc.logger.Warn("GetResourceAvailability: invalid interval starts=%v ends=%v", req.StartsAt, req.EndsAt)
		return nil, ErrInvalidInterval
	}

	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetResourceAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetResourceAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	committed, err := uc.committedQuantities(ctx, interval, req.ExcludeReservationID)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(resource, committed[resource.ID])
	uc.logger.Info("GetResourceAvailability: resource id=%d available=%d of %d",
		resource.ID, resp.Available, resp.Total)
	return resp, nil
}

// ExecuteBulk возвращает доступность всех активных ресурсов на интервале
func (uc *UseCase) ExecuteBulk(ctx context.Context, req *BulkRequest) (*BulkResponse, error) {
	uc.logger.Info("GetResourceAvailability: bulk starts=%s, ends=%s",
		req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339))

	interval, err := domain.NewTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		uc.logger.Warn("GetResourceAvailability: invalid interval starts=%v ends=%v", req.StartsAt, req.EndsAt)
		return nil, ErrInvalidInterval
	}

	resources, err := uc.resourceRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GetResourceAvailability: failed to list resources: %v", err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	committed, err := uc.committedQuantities(ctx, interval, req.ExcludeReservationID)
	if err != nil {
		return nil, err
	}

	resp := &BulkResponse{Resources: make([]Response, 0, len(resources))}
	for _, resource := range resources {
		resp.Resources = append(resp.Resources, *buildResponse(resource, committed[resource.ID]))
	}

	uc.logger.Info("GetResourceAvailability: bulk computed for %d resources", len(resp.Resources))
	return resp, nil
}

// committedQuantities суммирует удержанный сток по каждому ресурсу
// среди активных резерваций, пересекающих интервал
func (uc *UseCase) committedQuantities(ctx context.Context, interval domain.TimeRange, excludeID *int64) (map[int64]int, error) {
	overlapping, err := uc.reservationRepo.ListOverlapping(ctx, domain.OverlapFilter{
		Interval:  interval,
		Statuses:  domain.ActiveStatuses,
		ExcludeID: excludeID,
		WithUsage: true,
	})
	if err != nil {
		uc.logger.Error("GetResourceAvailability: failed to list overlapping reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list overlapping reservations: %v", ErrInternal, err)
	}

	committed := make(map[int64]int)
	for _, reservation := range overlapping {
		for _, usage := range reservation.Usages {
			committed[usage.ResourceID] += usage.Quantity
		}
	}

	return committed, nil
}

func buildResponse(resource *domain.Resource, committed int) *Response {
	available := resource.Quantity - committed
	if available < 0 {
		available = 0
	}
	return &Response{
		ResourceID:   resource.ID,
		ResourceName: resource.Name,
		Total:        resource.Quantity,
		Available:    available,
	}
}
