package create_reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrSpaceNotFound возвращается, когда пространство не найдено
	ErrSpaceNotFound = errors.New("create_reservation: space not found")

	// ErrSpaceInactive возвращается, когда пространство выведено из оборота
	ErrSpaceInactive = errors.New("create_reservation: space is not active")

	// ErrResourceNotFound возвращается, когда запрошенный ресурс не найден
	ErrResourceNotFound = errors.New("create_reservation: resource not found")

	// ErrResourceInactive возвращается, когда ресурс выведен из оборота
	ErrResourceInactive = errors.New("create_reservation: resource is not active")

	// ErrInsufficientResource возвращается, когда свободного стока ресурса
	// не хватает на запрошенное количество
	ErrInsufficientResource = errors.New("create_reservation: insufficient resource stock")

	// ErrStartsInPast возвращается, когда интервал начинается в прошлом
	ErrStartsInPast = errors.New("create_reservation: reservation starts in the past")

	// ErrInvalidInterval возвращается при некорректном интервале
	ErrInvalidInterval = errors.New("create_reservation: invalid time interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// InsufficientResourceError несет детали нехватки стока.
// Раскрывается через errors.As, через errors.Is совместим с ErrInsufficientResource.
type InsufficientResourceError struct {
	Detail InsufficientResource
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("%v: %s requested=%d available=%d",
		ErrInsufficientResource, e.Detail.ResourceName, e.Detail.Requested, e.Detail.Available)
}

func (e *InsufficientResourceError) Unwrap() error {
	return ErrInsufficientResource
}
