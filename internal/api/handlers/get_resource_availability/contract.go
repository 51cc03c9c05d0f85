package get_resource_availability

import (
	"context"

	getResourceAvailability "github.com/m04kA/UCS-ReservationService/internal/usecase/get_resource_availability"
)

type GetResourceAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getResourceAvailability.Request) (*getResourceAvailability.Response, error)
	ExecuteBulk(ctx context.Context, req *getResourceAvailability.BulkRequest) (*getResourceAvailability.BulkResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
